package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "REQUEST_ROUTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used for all supervisor events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event codes emitted by the supervisor service.
const (
	TypeRequestRouted    = "REQUEST_ROUTED"
	TypeDocumentIngested = "DOCUMENT_INGESTED"
	TypeSessionCleared   = "SESSION_CLEARED"
)

// NewRequestRouted records one completed traversal of the routing flow.
func NewRequestRouted(sessionID, category string, success bool) Event {
	return BaseEvent{
		Type: TypeRequestRouted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"category":   category,
			"success":    success,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngested records an upload that produced documents.
func NewDocumentIngested(sessionID, filename string, count int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"filename":   filename,
			"count":      count,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionCleared records an explicit clear of a session log.
func NewSessionCleared(sessionID string) Event {
	return BaseEvent{
		Type: TypeSessionCleared,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}
