package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Palpatine0/TalkThrough/internal/dto"
	"github.com/Palpatine0/TalkThrough/internal/pkg/apperror"
	"github.com/Palpatine0/TalkThrough/internal/repository/memory"
	"github.com/Palpatine0/TalkThrough/pkg/advice/engine"
	"github.com/Palpatine0/TalkThrough/pkg/llm"
	"github.com/Palpatine0/TalkThrough/pkg/store"
)

type stubProvider struct {
	output string
	err    error
	calls  int
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.calls++
	return s.output, s.err
}

func (s *stubProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	return s.output, s.err
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type chatFixture struct {
	service  IChatService
	repo     *memory.SessionRepository
	provider *stubProvider
	metrics  IMetricsService
}

func newChatFixture(t *testing.T, provider *stubProvider) *chatFixture {
	t.Helper()

	log := nopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	metrics := NewMetricsService(pubSub, log)
	require.NoError(t, metrics.Consume(context.Background()))

	repo := memory.NewSessionRepository()
	adviceEngine := engine.NewEngine(provider, log)

	return &chatFixture{
		service:  NewChatService(repo, adviceEngine, metrics, pubSub, log),
		repo:     repo,
		provider: provider,
		metrics:  metrics,
	}
}

func requireAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	appErr, ok := apperror.From(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, code, appErr.Code)
}

func personalAnswers() map[string]any {
	return map[string]any{
		"duration":     "1-3 years",
		"closeness":    7,
		"conflictType": "Communication",
	}
}

func TestStartConversation(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "INSIGHT: Welcome.\nSUGGESTIONS:\n1. Tell me more\n2. Start from the beginning\n3. What happened today?"})

	res, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "personal",
		SurveyAnswers:    personalAnswers(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "personal", res.RelationshipType)
	assert.Equal(t, "Welcome.", res.InitialMessage)
	assert.Len(t, res.SuggestedReplies, 3)

	// Prompt is built once at creation and persisted with the session.
	session, err := f.repo.Get(res.SessionID)
	require.NoError(t, err)
	assert.Contains(t, session.Prompt, "- Duration: 1-3 years")
	assert.Contains(t, session.Prompt, "- Closeness Level: 7/10")
	assert.Contains(t, session.Prompt, "- Main Issue: Communication")

	// History opens with exactly the one assistant greeting turn.
	require.Len(t, session.Messages, 1)
	assert.Equal(t, store.MessageRoleAssistant, session.Messages[0].Role)
	assert.Equal(t, "Welcome.", session.Messages[0].Content)
}

func TestStartConversationInvalidCategory(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "ok"})

	_, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "romantic",
		SurveyAnswers:    personalAnswers(),
	})
	requireAppError(t, err, 400, "INVALID_RELATIONSHIP_TYPE")
	assert.Zero(t, f.provider.calls, "backend must not be called for invalid categories")
}

func TestSendMessage(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "INSIGHT: You feel unheard.\nSUGGESTIONS:\n1. Tell them\n2. Write it down\n3. Take a breath"})

	started, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "personal",
		SurveyAnswers:    personalAnswers(),
	})
	require.NoError(t, err)

	res, err := f.service.SendMessage(context.Background(), started.SessionID, &dto.SendMessageRequest{Message: "I'm upset"})
	require.NoError(t, err)

	assert.Equal(t, started.SessionID, res.SessionID)
	assert.Equal(t, "You feel unheard.", res.AIResponse)
	assert.Equal(t, []string{"Tell them", "Write it down", "Take a breath"}, res.SuggestedReplies)

	// Greeting, user turn, assistant turn - in that order with increasing ids.
	history, err := f.service.GetMessages(context.Background(), started.SessionID)
	require.NoError(t, err)
	require.Equal(t, 3, history.TotalMessages)
	assert.Equal(t, store.MessageRoleAssistant, history.Messages[0].Role)
	assert.Equal(t, store.MessageRoleUser, history.Messages[1].Role)
	assert.Equal(t, "I'm upset", history.Messages[1].Content)
	assert.Equal(t, store.MessageRoleAssistant, history.Messages[2].Role)
	assert.Equal(t, "You feel unheard.", history.Messages[2].Content)
	for i := 1; i < len(history.Messages); i++ {
		assert.Greater(t, history.Messages[i].ID, history.Messages[i-1].ID)
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "ok"})

	started, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "casual",
		SurveyAnswers:    map[string]any{"frequency": "Weekly"},
	})
	require.NoError(t, err)

	_, err = f.service.SendMessage(context.Background(), started.SessionID, &dto.SendMessageRequest{Message: "   "})
	requireAppError(t, err, 400, "EMPTY_MESSAGE")

	// A rejected turn leaves the history untouched.
	history, err := f.service.GetMessages(context.Background(), started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, history.TotalMessages)
}

func TestSendMessageUnknownSession(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "ok"})

	_, err := f.service.SendMessage(context.Background(), "no-such-session", &dto.SendMessageRequest{Message: "hello"})
	requireAppError(t, err, 404, "SESSION_NOT_FOUND")
}

func TestSendMessageDegradedBackend(t *testing.T) {
	provider := &stubProvider{output: "INSIGHT: hi.\nSUGGESTIONS:\n1. a\n2. b\n3. c"}
	f := newChatFixture(t, provider)

	started, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "personal",
		SurveyAnswers:    personalAnswers(),
	})
	require.NoError(t, err)

	// Backend goes down between turns; the conversation must keep working.
	provider.err = errors.New("connection refused")

	res, err := f.service.SendMessage(context.Background(), started.SessionID, &dto.SendMessageRequest{Message: "are you there?"})
	require.NoError(t, err)
	assert.Equal(t, engine.DegradedReply, res.AIResponse)
	assert.Equal(t, engine.DegradedSuggestions(), res.SuggestedReplies)

	// Both the user turn and the degraded assistant turn are recorded.
	history, err := f.service.GetMessages(context.Background(), started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, history.TotalMessages)

	assert.Eventually(t, func() bool {
		s := f.metrics.Snapshot()
		return s.TurnsCompleted == 1 && s.DegradedTurns == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetSession(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "hello there"})

	started, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "professional",
		SurveyAnswers:    map[string]any{"workingRelationship": "They are my boss"},
	})
	require.NoError(t, err)

	detail, err := f.service.GetSession(context.Background(), started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, started.SessionID, detail.SessionID)
	assert.Equal(t, "professional", detail.RelationshipType)
	assert.Equal(t, map[string]any{"workingRelationship": "They are my boss"}, detail.SurveyAnswers)
	assert.Equal(t, 1, detail.MessageCount)
}

func TestEndConversation(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "hello"})

	started, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "personal",
		SurveyAnswers:    personalAnswers(),
	})
	require.NoError(t, err)

	require.NoError(t, f.service.EndConversation(context.Background(), started.SessionID))

	err = f.service.EndConversation(context.Background(), started.SessionID)
	requireAppError(t, err, 404, "SESSION_NOT_FOUND")

	_, err = f.service.GetMessages(context.Background(), started.SessionID)
	requireAppError(t, err, 404, "SESSION_NOT_FOUND")
}

func TestStatsCombinesStoreAndMetrics(t *testing.T) {
	f := newChatFixture(t, &stubProvider{output: "hello"})

	started, err := f.service.StartConversation(context.Background(), &dto.StartConversationRequest{
		RelationshipType: "personal",
		SurveyAnswers:    personalAnswers(),
	})
	require.NoError(t, err)

	_, err = f.service.SendMessage(context.Background(), started.SessionID, &dto.SendMessageRequest{Message: "hi"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		stats, err := f.service.Stats(context.Background())
		if err != nil {
			return false
		}
		return stats.Sessions == 1 &&
			stats.TotalMessages == 3 &&
			stats.ConversationsStarted == 1 &&
			stats.TurnsCompleted == 1 &&
			stats.DegradedTurns == 0
	}, 2*time.Second, 10*time.Millisecond)
}
