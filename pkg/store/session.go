package store

import (
	"errors"
	"sync"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// Bounds chosen for the in-memory store (sessions live for the
	// process lifetime, logs must not grow without limit).
	MaxSessionMessages  = 400
	MaxSessionDocuments = 64
)

// ErrDocumentLimit is returned when an upload would push a session past
// MaxSessionDocuments.
var ErrDocumentLimit = errors.New("session document limit reached")

// Message is one conversational turn. Append-only; insertion order is the
// only order.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is the extracted text of one uploaded file unit (a PDF page, a
// spreadsheet sheet, a whole word-processor file). Immutable after ingestion.
type Document struct {
	ID         string    `json:"id"`
	SourceName string    `json:"source_name"` // originating filename
	FileKind   string    `json:"file_kind"`   // "pdf" | "docx" | "excel"
	Content    string    `json:"content"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Session owns one message log and one document set. It is the only mutable
// shared state in the core; all access goes through the per-session lock so
// concurrent requests against the same session id serialize their appends.
type Session struct {
	ID string `json:"id"`

	mu        sync.Mutex
	messages  []Message
	documents []Document
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Append adds a message at the end of the log. Once the log exceeds
// MaxSessionMessages the oldest entries are dropped (ring behavior).
func (s *Session) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	if len(s.messages) > MaxSessionMessages {
		s.messages = s.messages[len(s.messages)-MaxSessionMessages:]
	}
}

// Messages returns a snapshot copy of the full log.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Recent returns a snapshot of the last n messages (recency window, full
// untruncated content).
func (s *Session) Recent(n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if len(s.messages) > n {
		start = len(s.messages) - n
	}
	out := make([]Message, len(s.messages)-start)
	copy(out, s.messages[start:])
	return out
}

func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear empties the whole message log. Documents are kept; they have their
// own lifecycle.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// AddDocuments appends ingested documents to the session's document set.
// Returns false once the per-session cap would be exceeded; no partial add.
func (s *Session) AddDocuments(docs []Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.documents)+len(docs) > MaxSessionDocuments {
		return false
	}
	s.documents = append(s.documents, docs...)
	return true
}

// Documents returns a snapshot copy of the document set.
func (s *Session) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Document, len(s.documents))
	copy(out, s.documents)
	return out
}

func (s *Session) DocumentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}
