package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"attention-cv-be/internal/constant"
	"attention-cv-be/pkg/document"
	"attention-cv-be/pkg/llm"
	"attention-cv-be/pkg/store"

	"github.com/google/uuid"
)

// ChatAgent answers conversational requests, grounded in the session's
// uploaded documents when any exist. Stateless apart from the session it is
// handed per call.
type ChatAgent struct {
	llmProvider   llm.LLMProvider
	logger        *log.Logger
	contextLength int // document context budget in the system prompt
}

func NewChatAgent(llmProvider llm.LLMProvider, contextLength int, logger *log.Logger) *ChatAgent {
	return &ChatAgent{
		llmProvider:   llmProvider,
		logger:        logger,
		contextLength: contextLength,
	}
}

// Execute runs one conversational turn. The user message and the reply (or
// the error string, on failure) are always appended to the session log, in
// that order. A failed turn is recorded, never silently skipped.
func (a *ChatAgent) Execute(ctx context.Context, session *store.Session, request string) (string, error) {
	docs := session.Documents()

	systemPrompt := constant.ChatSystemPromptV1
	if len(docs) > 0 {
		docContext := document.BuildContext(docs, a.contextLength)
		systemPrompt += fmt.Sprintf(constant.ChatDocumentBlockV1, docContext, len(docs))
	}

	history := session.Recent(constant.HistoryWindow)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: request})

	a.logger.Printf("[CHAT] Executing with %d messages, %d documents", len(messages), len(docs))

	reply, err := a.llmProvider.Chat(ctx, messages)
	if err != nil {
		a.logger.Printf("[CHAT] LLM error: %v", err)
		errorMessage := fmt.Sprintf("Sorry, an error occurred while answering: %v", err)
		session.Append(newMessage(store.RoleUser, request))
		session.Append(newMessage(store.RoleAssistant, errorMessage))
		return errorMessage, err
	}

	session.Append(newMessage(store.RoleUser, request))
	session.Append(newMessage(store.RoleAssistant, reply))

	return reply, nil
}

func newMessage(role, content string) store.Message {
	return store.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
