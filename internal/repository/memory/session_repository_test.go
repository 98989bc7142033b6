package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Palpatine0/TalkThrough/pkg/store"
)

func newTestRepo(t *testing.T) (*SessionRepository, *time.Time) {
	t.Helper()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepository()
	repo.clock = func() time.Time { return now }
	return repo, &now
}

func mustCreate(t *testing.T, repo *SessionRepository, id string) *store.Session {
	t.Helper()
	s, err := repo.Create(id, "personal", map[string]any{"duration": "1-3 years"}, "prompt text")
	require.NoError(t, err)
	return s
}

func TestCreateAndGet(t *testing.T) {
	repo, now := newTestRepo(t)

	created := mustCreate(t, repo, "s1")
	assert.Equal(t, "s1", created.ID)
	assert.Equal(t, "personal", created.Category)
	assert.Empty(t, created.Messages)
	assert.Equal(t, *now, created.CreatedAt)
	assert.Equal(t, *now, created.LastActivity)

	got, err := repo.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateDuplicate(t *testing.T) {
	repo, _ := newTestRepo(t)
	mustCreate(t, repo, "s1")

	_, err := repo.Create("s1", "casual", nil, "other prompt")
	assert.ErrorIs(t, err, ErrDuplicateSession)

	// The original session must be untouched.
	got, err := repo.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "personal", got.Category)
}

func TestGetUnknown(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	repo, _ := newTestRepo(t)
	mustCreate(t, repo, "s1")

	got, err := repo.Get("s1")
	require.NoError(t, err)
	got.Category = "mutated"
	got.SurveyAnswers["injected"] = true
	got.Messages = append(got.Messages, store.Message{Role: store.MessageRoleUser, Content: "fake"})

	fresh, err := repo.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "personal", fresh.Category)
	assert.NotContains(t, fresh.SurveyAnswers, "injected")
	assert.Empty(t, fresh.Messages)
}

func TestAppendMessageAssignsIncreasingIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	mustCreate(t, repo, "s1")

	for i := 1; i <= 5; i++ {
		msg, err := repo.AppendMessage("s1", store.Message{
			Role:    store.MessageRoleUser,
			Content: fmt.Sprintf("turn %d", i),
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(i), msg.ID)
	}

	messages := repo.ListMessages("s1")
	require.Len(t, messages, 5)
	for i, m := range messages {
		assert.Equal(t, uint64(i+1), m.ID)
		assert.Equal(t, fmt.Sprintf("turn %d", i+1), m.Content)
	}
}

func TestAppendMessageUnknownSession(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.AppendMessage("missing", store.Message{Role: store.MessageRoleUser, Content: "hi"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// A failed append must not create the session as a side effect.
	_, err = repo.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAppendMessageBumpsLastActivity(t *testing.T) {
	repo, now := newTestRepo(t)
	mustCreate(t, repo, "s1")
	created := *now

	*now = now.Add(90 * time.Minute)
	_, err := repo.AppendMessage("s1", store.Message{Role: store.MessageRoleUser, Content: "hi"})
	require.NoError(t, err)

	got, err := repo.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, *now, got.LastActivity)
}

func TestListMessagesUnknownSessionIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	messages := repo.ListMessages("missing")
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestUpdateExplicitFields(t *testing.T) {
	repo, now := newTestRepo(t)
	mustCreate(t, repo, "s1")

	*now = now.Add(time.Hour)
	category := "professional"
	promptText := "rebuilt prompt"
	err := repo.Update("s1", SessionUpdate{
		Category:      &category,
		SurveyAnswers: map[string]any{"duration": "2+ years"},
		Prompt:        &promptText,
	})
	require.NoError(t, err)

	got, err := repo.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "professional", got.Category)
	assert.Equal(t, map[string]any{"duration": "2+ years"}, got.SurveyAnswers)
	assert.Equal(t, "rebuilt prompt", got.Prompt)
	assert.Equal(t, *now, got.LastActivity)
}

func TestUpdateUnknownSession(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := "casual"
	err := repo.Update("missing", SessionUpdate{Category: &category})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	mustCreate(t, repo, "s1")

	assert.True(t, repo.Delete("s1"))
	assert.False(t, repo.Delete("s1"))

	_, err := repo.Get("s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepExpired(t *testing.T) {
	repo, now := newTestRepo(t)
	mustCreate(t, repo, "stale")
	mustCreate(t, repo, "fresh")

	// Touch "fresh" two hours later; "stale" keeps its original activity.
	*now = now.Add(2 * time.Hour)
	_, err := repo.AppendMessage("fresh", store.Message{Role: store.MessageRoleUser, Content: "still here"})
	require.NoError(t, err)

	removed := repo.SweepExpired(time.Hour)
	assert.Equal(t, 1, removed)

	_, err = repo.Get("stale")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	survivor, err := repo.Get("fresh")
	require.NoError(t, err)
	require.Len(t, survivor.Messages, 1)
	assert.Equal(t, "still here", survivor.Messages[0].Content)
}

func TestSweepExpiredCutoffIsStrict(t *testing.T) {
	repo, now := newTestRepo(t)
	mustCreate(t, repo, "edge")

	// Idle for exactly maxIdle is not "older than" the cutoff.
	*now = now.Add(time.Hour)
	assert.Equal(t, 0, repo.SweepExpired(time.Hour))

	*now = now.Add(time.Nanosecond)
	assert.Equal(t, 1, repo.SweepExpired(time.Hour))
}

func TestStats(t *testing.T) {
	repo, _ := newTestRepo(t)
	assert.Equal(t, StoreStats{}, repo.Stats())

	mustCreate(t, repo, "s1")
	mustCreate(t, repo, "s2")
	for i := 0; i < 3; i++ {
		_, err := repo.AppendMessage("s1", store.Message{Role: store.MessageRoleUser, Content: "m"})
		require.NoError(t, err)
	}
	_, err := repo.AppendMessage("s2", store.Message{Role: store.MessageRoleAssistant, Content: "m"})
	require.NoError(t, err)

	stats := repo.Stats()
	assert.Equal(t, 2, stats.Sessions)
	assert.Equal(t, 4, stats.TotalMessages)
	assert.Equal(t, 2.0, stats.MeanMessagesPerSession)
}

func TestConcurrentAppends(t *testing.T) {
	repo := NewSessionRepository()
	_, err := repo.Create("s1", "personal", nil, "prompt")
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := repo.AppendMessage("s1", store.Message{
				Role:    store.MessageRoleUser,
				Content: fmt.Sprintf("concurrent %d", n),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	messages := repo.ListMessages("s1")
	require.Len(t, messages, workers)
	seen := map[uint64]bool{}
	for _, m := range messages {
		assert.False(t, seen[m.ID], "duplicate message id %d", m.ID)
		seen[m.ID] = true
	}
}
