package service

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"attention-cv-be/internal/config"
	"attention-cv-be/internal/constant"
	"attention-cv-be/internal/dto"
	"attention-cv-be/internal/repository/memory"
	"attention-cv-be/pkg/ai/agent"
	"attention-cv-be/pkg/ai/classifier"
	"attention-cv-be/pkg/ai/supervisor"
	"attention-cv-be/pkg/document"
	"attention-cv-be/pkg/events"
	"attention-cv-be/pkg/llm"
	"attention-cv-be/pkg/store"
)

// ISupervisorService defines the request-routing service interface
type ISupervisorService interface {
	Route(ctx context.Context, request *dto.SupervisorRequest) (*dto.SupervisorResponse, error)
	UploadDocument(ctx context.Context, sessionID, filename string, raw []byte) (*dto.UploadDocumentResponse, error)
	GetConversationSummary(ctx context.Context, sessionID string) (*dto.ConversationSummaryResponse, error)
	ClearConversation(ctx context.Context, sessionID string) (*dto.ClearConversationResponse, error)
	ListSessions(ctx context.Context) (*dto.ListSessionsResponse, error)
	SupportedFormats() *dto.SupportedFormatsResponse
}

const (
	summaryRecentMessages = 3
	summaryContentLength  = 100
	uploadPreviewLength   = 500
)

// supervisorService coordinates domain components
type supervisorService struct {
	sup              *supervisor.Supervisor
	sessionRepo      *memory.SessionRepository
	documentService  *document.Service
	publisherService IPublisherService
	llmLogger        *log.Logger
}

// NewSupervisorService wires the classifier and both agents around one LLM
// provider and the shared session repository.
func NewSupervisorService(
	cfg *config.Config,
	llmProvider llm.LLMProvider,
	sessionRepo *memory.SessionRepository,
	documentService *document.Service,
	publisherService IPublisherService,
) ISupervisorService {

	llmLogger := initLLMLogger()

	cls := classifier.NewClassifier(llmProvider, llmLogger)
	chatAgent := agent.NewChatAgent(llmProvider, cfg.Rag.ChatContextLength, llmLogger)
	codeAgent := agent.NewCodeAgent(llmProvider, cfg.Rag.CodeContextLength, llmLogger)

	return &supervisorService{
		sup:              supervisor.NewSupervisor(cls, chatAgent, codeAgent, sessionRepo, llmLogger),
		sessionRepo:      sessionRepo,
		documentService:  documentService,
		publisherService: publisherService,
		llmLogger:        llmLogger,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_supervisor.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-SUPERVISOR] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// Route classifies and dispatches one user turn.
func (ss *supervisorService) Route(ctx context.Context, request *dto.SupervisorRequest) (*dto.SupervisorResponse, error) {
	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = constant.DefaultSessionID
	}

	editor := request.Editor()
	result := ss.sup.Route(ctx, supervisor.Request{
		SessionID: sessionID,
		Prompt:    request.Prompt,
		Editor: agent.EditorContext{
			Code:     editor.Code,
			Filename: editor.Filename,
			Language: editor.Language,
		},
		EnableIncremental: request.Incremental(),
	})

	if ss.publisherService != nil {
		event := events.NewRequestRouted(sessionID, result.RequestType, result.Success)
		if err := ss.publisherService.Publish(ctx, event); err != nil {
			ss.llmLogger.Printf("[EVENTS] publish failed: %v", err)
		}
	}

	return &dto.SupervisorResponse{
		RequestType:       result.RequestType,
		Confidence:        result.Confidence,
		Reasoning:         result.Reasoning,
		Response:          result.Response,
		GeneratedCode:     result.GeneratedCode,
		Filename:          result.Filename,
		Language:          result.Language,
		IncrementalUpdate: result.IncrementalUpdate,
		Success:           result.Success,
		SessionID:         result.SessionID,
	}, nil
}

// UploadDocument extracts text from the uploaded file and attaches the
// resulting documents to the session.
func (ss *supervisorService) UploadDocument(ctx context.Context, sessionID, filename string, raw []byte) (*dto.UploadDocumentResponse, error) {
	if sessionID == "" {
		sessionID = constant.DefaultSessionID
	}

	docs, err := ss.documentService.Ingest(raw, filename)
	if err != nil {
		return nil, err
	}

	session := ss.sessionRepo.GetOrCreate(sessionID)
	if !session.AddDocuments(docs) {
		return nil, &document.IngestionError{Filename: filename, Err: store.ErrDocumentLimit}
	}

	if ss.publisherService != nil {
		event := events.NewDocumentIngested(sessionID, filename, len(docs))
		if err := ss.publisherService.Publish(ctx, event); err != nil {
			ss.llmLogger.Printf("[EVENTS] publish failed: %v", err)
		}
	}

	return &dto.UploadDocumentResponse{
		SessionID:      sessionID,
		Filename:       filename,
		DocumentsAdded: len(docs),
		Preview:        document.BuildContext(docs, uploadPreviewLength),
		Summary:        document.ExtractSummary(session.Documents()),
	}, nil
}

// GetConversationSummary reports counts and a short tail of the log. An
// unknown session is reported as exists=false, never an error.
func (ss *supervisorService) GetConversationSummary(_ context.Context, sessionID string) (*dto.ConversationSummaryResponse, error) {
	session, ok := ss.sessionRepo.Get(sessionID)
	if !ok {
		return &dto.ConversationSummaryResponse{
			SessionID:      sessionID,
			Exists:         false,
			RecentMessages: []dto.RecentMessageDTO{},
		}, nil
	}

	recent := session.Recent(summaryRecentMessages)
	messages := make([]dto.RecentMessageDTO, 0, len(recent))
	for _, msg := range recent {
		content := document.TruncateRunes(msg.Content, summaryContentLength)
		messages = append(messages, dto.RecentMessageDTO{Role: msg.Role, Content: content})
	}

	return &dto.ConversationSummaryResponse{
		SessionID:      sessionID,
		Exists:         true,
		MessageCount:   session.MessageCount(),
		DocumentCount:  session.DocumentCount(),
		RecentMessages: messages,
	}, nil
}

// ClearConversation empties the session log. Clearing an unknown session
// reports cleared=false.
func (ss *supervisorService) ClearConversation(ctx context.Context, sessionID string) (*dto.ClearConversationResponse, error) {
	cleared := ss.sessionRepo.Clear(sessionID)

	if cleared && ss.publisherService != nil {
		if err := ss.publisherService.Publish(ctx, events.NewSessionCleared(sessionID)); err != nil {
			ss.llmLogger.Printf("[EVENTS] publish failed: %v", err)
		}
	}

	return &dto.ClearConversationResponse{SessionID: sessionID, Cleared: cleared}, nil
}

func (ss *supervisorService) ListSessions(_ context.Context) (*dto.ListSessionsResponse, error) {
	sessions := ss.sessionRepo.ListSessions()
	return &dto.ListSessionsResponse{Sessions: sessions, Count: len(sessions)}, nil
}

func (ss *supervisorService) SupportedFormats() *dto.SupportedFormatsResponse {
	return &dto.SupportedFormatsResponse{SupportedFormats: ss.documentService.SupportedFormats()}
}
