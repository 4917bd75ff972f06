package supervisor

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"attention-cv-be/internal/repository/memory"
	"attention-cv-be/pkg/ai/agent"
	"attention-cv-be/pkg/ai/classifier"
	"attention-cv-be/pkg/llm"
	"attention-cv-be/pkg/store"
)

// fakeLLM pops chat replies in call order; the first Chat call is always the
// classifier, subsequent ones the chat agent. Generate serves the code agent.
type fakeLLM struct {
	chatReplies   []string
	chatErr       error
	generateReply string
	generateErr   error
	panicOnChat   bool
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	if f.panicOnChat {
		panic("provider blew up")
	}
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.chatReplies) == 0 {
		return "", nil
	}
	reply := f.chatReplies[0]
	f.chatReplies = f.chatReplies[1:]
	return reply, nil
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return f.generateReply, f.generateErr
}

const (
	chatDecision = `{"category": "chat", "confidence": 0.9, "reasoning": "conversational"}`
	codeDecision = `{"category": "code", "confidence": 0.95, "reasoning": "asks for markup"}`
)

func newTestSupervisor(provider llm.LLMProvider) (*Supervisor, *memory.SessionRepository) {
	logger := log.New(io.Discard, "", 0)
	repo := memory.NewSessionRepository()
	sup := NewSupervisor(
		classifier.NewClassifier(provider, logger),
		agent.NewChatAgent(provider, 2000, logger),
		agent.NewCodeAgent(provider, 1500, logger),
		repo,
		logger,
	)
	return sup, repo
}

func TestRouteChat(t *testing.T) {
	fake := &fakeLLM{chatReplies: []string{chatDecision, "A CV summarizes your experience."}}
	sup, repo := newTestSupervisor(fake)

	resp := sup.Route(context.Background(), Request{SessionID: "s1", Prompt: "what is a CV?"})

	if resp.RequestType != classifier.CategoryChat {
		t.Errorf("RequestType = %q", resp.RequestType)
	}
	if !resp.Success {
		t.Error("Success = false")
	}
	if resp.Response != "A CV summarizes your experience." {
		t.Errorf("Response = %q", resp.Response)
	}
	if resp.GeneratedCode != "" || resp.IncrementalUpdate != nil {
		t.Error("chat turn must never carry code output")
	}

	session, _ := repo.Get("s1")
	msgs := session.Messages()
	if len(msgs) != 2 {
		t.Fatalf("session log length = %d, want 2", len(msgs))
	}
	if msgs[0].Role != store.RoleUser || msgs[1].Role != store.RoleAssistant {
		t.Errorf("log order = %s, %s", msgs[0].Role, msgs[1].Role)
	}
}

func TestRouteCodeFullGeneration(t *testing.T) {
	fake := &fakeLLM{
		chatReplies: []string{codeDecision},
		generateReply: "EXPLANATION: Built the landing page\n" +
			"CODE:\n<html><body>cv</body></html>\n" +
			"FILENAME: cv.html\n" +
			"LANGUAGE: HTML",
	}
	sup, repo := newTestSupervisor(fake)

	resp := sup.Route(context.Background(), Request{SessionID: "s1", Prompt: "build my cv page", EnableIncremental: true})

	if resp.RequestType != classifier.CategoryCode || !resp.Success {
		t.Fatalf("RequestType = %q, Success = %v", resp.RequestType, resp.Success)
	}
	if resp.GeneratedCode != "<html><body>cv</body></html>" {
		t.Errorf("GeneratedCode = %q", resp.GeneratedCode)
	}
	if resp.IncrementalUpdate != nil {
		t.Error("full generation must not carry an incremental update")
	}
	if resp.Filename != "cv.html" || resp.Language != "html" {
		t.Errorf("Filename/Language = %q/%q", resp.Filename, resp.Language)
	}

	// The log records a synthetic summary, never the code.
	session, _ := repo.Get("s1")
	msgs := session.Messages()
	if len(msgs) != 2 {
		t.Fatalf("session log length = %d", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "Generated code: cv.html (html)") {
		t.Errorf("assistant log entry = %q", msgs[1].Content)
	}
	if strings.Contains(msgs[1].Content, "<html>") {
		t.Error("raw code leaked into the session log")
	}
}

func TestRouteCodeIncremental(t *testing.T) {
	fake := &fakeLLM{
		chatReplies: []string{codeDecision},
		generateReply: `EXPLANATION: Recolored the header
INCREMENTAL_OPERATIONS: [{"operation": "replace", "target": "h1", "new_content": "color: red"}]`,
	}
	sup, _ := newTestSupervisor(fake)

	resp := sup.Route(context.Background(), Request{
		SessionID:         "s1",
		Prompt:            "make the header red",
		Editor:            agent.EditorContext{Code: "<h1>Hi</h1>", Filename: "cv.html", Language: "html"},
		EnableIncremental: true,
	})

	if !resp.Success {
		t.Fatal("Success = false")
	}
	if resp.IncrementalUpdate == nil {
		t.Fatal("IncrementalUpdate = nil")
	}
	if resp.GeneratedCode != "" {
		t.Error("incremental turn must not carry a full artifact")
	}
	if len(resp.IncrementalUpdate.Operations) != 1 {
		t.Errorf("operations = %d", len(resp.IncrementalUpdate.Operations))
	}
	if resp.IncrementalUpdate.EstimatedImpact != "medium" {
		t.Errorf("EstimatedImpact = %q", resp.IncrementalUpdate.EstimatedImpact)
	}
}

func TestRouteCodeIncrementalMalformedFallsBackToFull(t *testing.T) {
	raw := `EXPLANATION: tried an edit
INCREMENTAL_OPERATIONS: [{"operation": broken]`
	fake := &fakeLLM{
		chatReplies:   []string{codeDecision},
		generateReply: raw,
	}
	sup, _ := newTestSupervisor(fake)

	resp := sup.Route(context.Background(), Request{
		SessionID:         "s1",
		Prompt:            "tweak it",
		Editor:            agent.EditorContext{Code: "<h1>Hi</h1>"},
		EnableIncremental: true,
	})

	if !resp.Success {
		t.Fatal("Success = false")
	}
	if resp.IncrementalUpdate != nil {
		t.Error("malformed operations must not yield an incremental update")
	}
	if resp.GeneratedCode != raw {
		t.Errorf("GeneratedCode = %q, want the raw reply", resp.GeneratedCode)
	}
}

func TestRouteIncrementalDisabledUsesFullGeneration(t *testing.T) {
	fake := &fakeLLM{
		chatReplies:   []string{codeDecision},
		generateReply: "CODE:\n<p>new</p>",
	}
	sup, _ := newTestSupervisor(fake)

	resp := sup.Route(context.Background(), Request{
		SessionID:         "s1",
		Prompt:            "replace the intro",
		Editor:            agent.EditorContext{Code: "<p>old</p>"},
		EnableIncremental: false,
	})

	if resp.IncrementalUpdate != nil {
		t.Error("incremental disabled but update returned")
	}
	if resp.GeneratedCode != "<p>new</p>" {
		t.Errorf("GeneratedCode = %q", resp.GeneratedCode)
	}
}

func TestRouteClassifierFailureDegradesToChat(t *testing.T) {
	// Garbage classification, then a normal chat reply.
	fake := &fakeLLM{chatReplies: []string{"not json at all", "happy to help"}}
	sup, _ := newTestSupervisor(fake)

	resp := sup.Route(context.Background(), Request{SessionID: "s1", Prompt: "uh"})

	if resp.RequestType != classifier.CategoryChat {
		t.Errorf("RequestType = %q, want chat fallback", resp.RequestType)
	}
	if resp.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", resp.Confidence)
	}
	if !strings.HasPrefix(resp.Reasoning, "classification failed:") {
		t.Errorf("Reasoning = %q", resp.Reasoning)
	}
	if !resp.Success || resp.Response != "happy to help" {
		t.Errorf("Success = %v, Response = %q", resp.Success, resp.Response)
	}
}

func TestRouteChatAgentErrorStillRecordsTurn(t *testing.T) {
	// Classifier call succeeds, the chat agent call errors out.
	sup, repo := newTestSupervisor(&failingAfterFirst{first: chatDecision})

	resp := sup.Route(context.Background(), Request{SessionID: "s1", Prompt: "hello"})

	if resp.Success {
		t.Error("Success = true on provider failure")
	}
	if !strings.Contains(resp.Response, "an error occurred") {
		t.Errorf("Response = %q", resp.Response)
	}

	session, _ := repo.Get("s1")
	if session.MessageCount() != 2 {
		t.Errorf("failed turn not recorded, log length = %d", session.MessageCount())
	}
}

func TestRoutePanicBoundary(t *testing.T) {
	sup, repo := newTestSupervisor(&fakeLLM{panicOnChat: true})

	resp := sup.Route(context.Background(), Request{SessionID: "s1", Prompt: "boom"})

	if resp == nil {
		t.Fatal("Route returned nil after panic")
	}
	if resp.RequestType != CategoryError {
		t.Errorf("RequestType = %q, want %q", resp.RequestType, CategoryError)
	}
	if resp.Success {
		t.Error("Success = true after panic")
	}
	if resp.SessionID != "s1" {
		t.Errorf("SessionID = %q", resp.SessionID)
	}

	// The failed traversal is recorded as a turn.
	session, _ := repo.Get("s1")
	msgs := session.Messages()
	if len(msgs) != 2 {
		t.Fatalf("session log length = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "boom" || msgs[1].Role != store.RoleAssistant {
		t.Errorf("error turn not recorded: %+v", msgs)
	}
}

// failingAfterFirst answers the first Chat call and errors on the rest.
type failingAfterFirst struct {
	first string
	calls int
}

func (f *failingAfterFirst) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	if f.calls == 1 {
		return f.first, nil
	}
	return "", context.DeadlineExceeded
}

func (f *failingAfterFirst) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return "", context.DeadlineExceeded
}
