package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"attention-cv-be/internal/constant"
	"attention-cv-be/pkg/llm"
	"attention-cv-be/pkg/store"
)

const (
	CategoryChat = "chat"
	CategoryCode = "code"
)

// Result is the typed routing decision. Transient, produced per request.
type Result struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classifier decides whether a request is conversational or code-oriented.
// Stateless; safe to share across concurrent requests.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify routes the request via structured decoding. It never fails:
// any model or decode error degrades to the chat default, because chat is
// the only branch that cannot mutate code state.
func (c *Classifier) Classify(ctx context.Context, request string, history []store.Message) *Result {
	prompt := c.buildPrompt(request, history)

	reply, err := c.llmProvider.Chat(ctx, []llm.Message{
		{Role: "user", Content: prompt},
		{Role: "user", Content: constant.ClassificationSchemaInstructionV1},
	})
	if err != nil {
		c.logger.Printf("[CLASSIFIER] Model call failed: %v", err)
		return fallback(err)
	}

	result, err := decodeResult(reply)
	if err != nil {
		c.logger.Printf("[CLASSIFIER] Decode failed: %v | raw: %s", err, truncateLog(reply, 200))
		return fallback(err)
	}

	c.logger.Printf("[CLASSIFIER] category=%s confidence=%.2f", result.Category, result.Confidence)
	return result
}

func (c *Classifier) buildPrompt(request string, history []store.Message) string {
	var b strings.Builder
	b.WriteString(constant.ClassificationPromptV1)

	if len(history) > 0 {
		b.WriteString("\n\nConversation History:\n")
		for _, msg := range history {
			role := "AI"
			if msg.Role == store.RoleUser {
				role = "Human"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
		}
	}

	fmt.Fprintf(&b, "\nCurrent user request: %s", request)
	return b.String()
}

// decodeResult coerces the reply into the result shape, tolerating markdown
// fence wrappers around the JSON.
func decodeResult(reply string) (*Result, error) {
	raw := bytes.TrimSpace([]byte(reply))
	raw = bytes.TrimPrefix(raw, []byte("```json"))
	raw = bytes.TrimPrefix(raw, []byte("```"))
	raw = bytes.TrimSuffix(raw, []byte("```"))
	raw = bytes.TrimSpace(raw)

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if result.Category != CategoryChat && result.Category != CategoryCode {
		return nil, fmt.Errorf("unknown category: %q", result.Category)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("confidence out of range: %f", result.Confidence)
	}

	return &result, nil
}

func fallback(cause error) *Result {
	return &Result{
		Category:   CategoryChat,
		Confidence: 0.5,
		Reasoning:  fmt.Sprintf("classification failed: %v", cause),
	}
}

func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
