package supervisor

import (
	"context"
	"fmt"
	"log"
	"time"

	"attention-cv-be/internal/constant"
	"attention-cv-be/internal/repository/memory"
	"attention-cv-be/pkg/ai/agent"
	"attention-cv-be/pkg/ai/classifier"
	"attention-cv-be/pkg/ai/protocol"
	"attention-cv-be/pkg/store"

	"github.com/google/uuid"
)

// CategoryError marks a response produced by the panic boundary rather than
// an agent.
const CategoryError = "error"

// Request is one routed user turn.
type Request struct {
	SessionID         string
	Prompt            string
	Editor            agent.EditorContext
	EnableIncremental bool
}

// Response is the unified payload every route produces, whichever agent
// handled it. For code turns exactly one of GeneratedCode or
// IncrementalUpdate is set.
type Response struct {
	RequestType       string
	Confidence        float64
	Reasoning         string
	Response          string
	GeneratedCode     string
	Filename          string
	Language          string
	IncrementalUpdate *protocol.IncrementalUpdate
	Success           bool
	SessionID         string
}

// Supervisor classifies each request and dispatches it to the matching
// agent. It owns no state of its own; sessions live in the repository.
type Supervisor struct {
	classifier *classifier.Classifier
	chatAgent  *agent.ChatAgent
	codeAgent  *agent.CodeAgent
	sessions   *memory.SessionRepository
	logger     *log.Logger
}

func NewSupervisor(
	cls *classifier.Classifier,
	chatAgent *agent.ChatAgent,
	codeAgent *agent.CodeAgent,
	sessions *memory.SessionRepository,
	logger *log.Logger,
) *Supervisor {
	return &Supervisor{
		classifier: cls,
		chatAgent:  chatAgent,
		codeAgent:  codeAgent,
		sessions:   sessions,
		logger:     logger,
	}
}

// Route handles one user turn end to end. It never panics outward: any
// panic below it is converted into an error-category response so the
// transport layer always has a payload to serialize.
func (s *Supervisor) Route(ctx context.Context, req Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("[SUPERVISOR] panic recovered: %v", r)
			errorMessage := fmt.Sprintf("An internal error occurred: %v", r)
			s.recordErrorTurn(req.SessionID, req.Prompt, errorMessage)
			resp = &Response{
				RequestType: CategoryError,
				Response:    errorMessage,
				Success:     false,
				SessionID:   req.SessionID,
			}
		}
	}()

	session := s.sessions.GetOrCreate(req.SessionID)

	decision := s.classifier.Classify(ctx, req.Prompt, session.Recent(constant.HistoryWindow))
	s.logger.Printf("[SUPERVISOR] session=%s category=%s confidence=%.2f", req.SessionID, decision.Category, decision.Confidence)

	resp = &Response{
		RequestType: decision.Category,
		Confidence:  decision.Confidence,
		Reasoning:   decision.Reasoning,
		SessionID:   req.SessionID,
	}

	switch decision.Category {
	case classifier.CategoryCode:
		result, errorMessage, err := s.codeAgent.Execute(ctx, session, req.Prompt, req.Editor, req.EnableIncremental)
		if err != nil {
			resp.Response = errorMessage
			return resp
		}
		resp.Response = result.Explanation
		resp.GeneratedCode = result.Code
		resp.Filename = result.Filename
		resp.Language = result.Language
		resp.IncrementalUpdate = result.Incremental
		resp.Success = true
	default:
		reply, err := s.chatAgent.Execute(ctx, session, req.Prompt)
		resp.Response = reply
		resp.Success = err == nil
	}

	return resp
}

// recordErrorTurn best-effort logs a failed traversal to the session so the
// history shows the turn happened. Its own recover keeps a broken store from
// masking the original panic's payload.
func (s *Supervisor) recordErrorTurn(sessionID, prompt, errorMessage string) {
	defer func() { recover() }()
	session := s.sessions.GetOrCreate(sessionID)
	now := time.Now()
	session.Append(store.Message{ID: uuid.New().String(), Role: store.RoleUser, Content: prompt, CreatedAt: now})
	session.Append(store.Message{ID: uuid.New().String(), Role: store.RoleAssistant, Content: errorMessage, CreatedAt: now})
}
