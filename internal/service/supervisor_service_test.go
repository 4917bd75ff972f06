package service

import (
	"context"
	"strings"
	"testing"

	"attention-cv-be/internal/config"
	"attention-cv-be/internal/dto"
	"attention-cv-be/internal/repository/memory"
	"attention-cv-be/pkg/document"
	"attention-cv-be/pkg/llm"
	"attention-cv-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLLM struct {
	chatReplies []string
}

func (s *scriptedLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	if len(s.chatReplies) == 0 {
		return "fallback reply", nil
	}
	reply := s.chatReplies[0]
	s.chatReplies = s.chatReplies[1:]
	return reply, nil
}

func (s *scriptedLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return "CODE:\n<html></html>", nil
}

func storeMessage(role, content string) store.Message {
	return store.Message{Role: role, Content: content}
}

func testConfig() *config.Config {
	return &config.Config{
		Rag: config.RagConfig{ChatContextLength: 2000, CodeContextLength: 1500},
	}
}

func newTestService(provider llm.LLMProvider) (ISupervisorService, *memory.SessionRepository) {
	repo := memory.NewSessionRepository()
	svc := NewSupervisorService(testConfig(), provider, repo, document.NewService(), nil)
	return svc, repo
}

func TestRouteDefaultsSessionID(t *testing.T) {
	provider := &scriptedLLM{chatReplies: []string{
		`{"category": "chat", "confidence": 0.9, "reasoning": "q"}`,
		"hello",
	}}
	svc, repo := newTestService(provider)

	res, err := svc.Route(context.Background(), &dto.SupervisorRequest{Prompt: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "default", res.SessionID)
	_, found := repo.Get("default")
	assert.True(t, found)
}

func TestGetConversationSummary(t *testing.T) {
	svc, repo := newTestService(&scriptedLLM{})

	t.Run("unknown session", func(t *testing.T) {
		res, err := svc.GetConversationSummary(context.Background(), "nope")
		require.NoError(t, err)
		assert.False(t, res.Exists)
		assert.Equal(t, 0, res.MessageCount)
		assert.Empty(t, res.RecentMessages)
	})

	t.Run("known session", func(t *testing.T) {
		session := repo.GetOrCreate("s1")
		for _, content := range []string{"one", "two", "three", strings.Repeat("x", 250)} {
			session.Append(storeMessage("user", content))
		}

		res, err := svc.GetConversationSummary(context.Background(), "s1")
		require.NoError(t, err)
		assert.True(t, res.Exists)
		assert.Equal(t, 4, res.MessageCount)
		require.Len(t, res.RecentMessages, 3)
		assert.Equal(t, "two", res.RecentMessages[0].Content)
		assert.Len(t, res.RecentMessages[2].Content, 100)
	})
}

func TestClearConversation(t *testing.T) {
	svc, repo := newTestService(&scriptedLLM{})

	res, err := svc.ClearConversation(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, res.Cleared)

	session := repo.GetOrCreate("s1")
	session.Append(storeMessage("user", "hi"))

	res, err = svc.ClearConversation(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, res.Cleared)
	assert.Equal(t, 0, session.MessageCount())
}

func TestListSessions(t *testing.T) {
	svc, repo := newTestService(&scriptedLLM{})

	res, err := svc.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)

	repo.GetOrCreate("a")
	repo.GetOrCreate("b")

	res, err = svc.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.ElementsMatch(t, []string{"a", "b"}, res.Sessions)
}

func TestUploadDocumentUnsupported(t *testing.T) {
	svc, _ := newTestService(&scriptedLLM{})

	_, err := svc.UploadDocument(context.Background(), "s1", "notes.txt", []byte("text"))
	require.Error(t, err)

	var unsupported *document.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestSupportedFormats(t *testing.T) {
	svc, _ := newTestService(&scriptedLLM{})

	res := svc.SupportedFormats()
	assert.Contains(t, res.SupportedFormats, ".pdf")
	assert.Contains(t, res.SupportedFormats, ".docx")
	assert.Contains(t, res.SupportedFormats, ".xlsx")
}
