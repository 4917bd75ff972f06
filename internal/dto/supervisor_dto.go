package dto

import (
	"attention-cv-be/pkg/ai/protocol"
	"attention-cv-be/pkg/document"
)

// EditorContextDTO carries the caller's editor buffer. Clients may send it
// either nested or via the flat currentCode/currentFilename fields; the
// nested form wins when both are present.
type EditorContextDTO struct {
	Code     string `json:"code"`
	Filename string `json:"filename"`
	Language string `json:"language"`
}

type SupervisorRequest struct {
	Prompt            string            `json:"prompt" validate:"required"`
	SessionID         string            `json:"session_id"`
	CurrentCode       string            `json:"currentCode"`
	CurrentFilename   string            `json:"currentFilename"`
	CurrentLanguage   string            `json:"currentLanguage"`
	EditorContext     *EditorContextDTO `json:"editor_context"`
	EnableIncremental *bool             `json:"enable_incremental"`
}

// Editor resolves the two accepted editor-state shapes into one.
func (r *SupervisorRequest) Editor() EditorContextDTO {
	if r.EditorContext != nil {
		return *r.EditorContext
	}
	return EditorContextDTO{
		Code:     r.CurrentCode,
		Filename: r.CurrentFilename,
		Language: r.CurrentLanguage,
	}
}

// Incremental defaults to true when the client omits the flag.
func (r *SupervisorRequest) Incremental() bool {
	if r.EnableIncremental == nil {
		return true
	}
	return *r.EnableIncremental
}

type SupervisorResponse struct {
	RequestType       string                      `json:"request_type"`
	Confidence        float64                     `json:"confidence"`
	Reasoning         string                      `json:"reasoning,omitempty"`
	Response          string                      `json:"response"`
	GeneratedCode     string                      `json:"generated_code,omitempty"`
	Filename          string                      `json:"filename,omitempty"`
	Language          string                      `json:"language,omitempty"`
	IncrementalUpdate *protocol.IncrementalUpdate `json:"incremental_update,omitempty"`
	Success           bool                        `json:"success"`
	SessionID         string                      `json:"session_id"`
}

type UploadDocumentResponse struct {
	SessionID      string            `json:"session_id"`
	Filename       string            `json:"filename"`
	DocumentsAdded int               `json:"documents_added"`
	Preview        string            `json:"preview"`
	Summary        *document.Summary `json:"summary"`
}

type RecentMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ConversationSummaryResponse struct {
	SessionID      string             `json:"session_id"`
	Exists         bool               `json:"exists"`
	MessageCount   int                `json:"message_count"`
	DocumentCount  int                `json:"document_count"`
	RecentMessages []RecentMessageDTO `json:"recent_messages"`
}

type ClearConversationResponse struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

type ListSessionsResponse struct {
	Sessions []string `json:"sessions"`
	Count    int      `json:"count"`
}

type SupportedFormatsResponse struct {
	SupportedFormats []string `json:"supported_formats"`
}
