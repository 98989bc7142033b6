// Package memory holds the in-process session store. It is the only shared
// mutable state in the system; every operation is atomic with respect to the
// others, so concurrent turns against the same session never interleave
// visibly.
package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Palpatine0/TalkThrough/pkg/store"
)

var (
	// ErrSessionNotFound signals a stale reference, distinct from validation
	// failures.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDuplicateSession is returned by Create when the id already exists.
	// Creation never silently overwrites.
	ErrDuplicateSession = errors.New("session already exists")
)

// SessionUpdate names the only fields Update may touch. Message history has
// a single mutation point (AppendMessage) and is deliberately not here.
type SessionUpdate struct {
	Category      *string
	SurveyAnswers map[string]any
	Prompt        *string
}

type StoreStats struct {
	Sessions               int     `json:"sessions"`
	TotalMessages          int     `json:"totalMessages"`
	MeanMessagesPerSession float64 `json:"meanMessagesPerSession"`
}

// record pairs a session with its message id counter. Ids are never reused:
// the counter only grows for the lifetime of the session.
type record struct {
	session *store.Session
	nextMsg uint64
}

type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	clock func() time.Time
}

func NewSessionRepository() *SessionRepository {
	// Expiry is driven by last-activity sweeps, not TTLs, so the cache keeps
	// entries indefinitely and runs no janitor.
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
		clock: time.Now,
	}
}

// Create stores a new session with an empty message sequence and both
// timestamps set to now.
func (r *SessionRepository) Create(id, category string, answers map[string]any, promptText string) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(id); found {
		return nil, ErrDuplicateSession
	}

	now := r.clock()
	session := &store.Session{
		ID:            id,
		Category:      category,
		SurveyAnswers: answers,
		Prompt:        promptText,
		Messages:      []store.Message{},
		CreatedAt:     now,
		LastActivity:  now,
	}
	// Clone on the way in so the caller's maps can't mutate stored state.
	session = session.Clone()

	r.cache.Set(id, &record{session: session, nextMsg: 0}, cache.NoExpiration)
	return session.Clone(), nil
}

func (r *SessionRepository) Get(id string) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.get(id)
	if err != nil {
		return nil, err
	}
	return rec.session.Clone(), nil
}

// AppendMessage assigns the next per-session message id, appends, and bumps
// last-activity in one atomic step. This is the sole way history grows.
func (r *SessionRepository) AppendMessage(id string, msg store.Message) (*store.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.get(id)
	if err != nil {
		return nil, err
	}

	rec.nextMsg++
	msg.ID = rec.nextMsg
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = r.clock()
	}
	if msg.SuggestedReplies != nil {
		msg.SuggestedReplies = append([]string(nil), msg.SuggestedReplies...)
	}

	rec.session.Messages = append(rec.session.Messages, msg)
	rec.session.LastActivity = r.clock()

	stored := msg
	return &stored, nil
}

// ListMessages is a total read path: an unknown id yields an empty slice,
// never an error.
func (r *SessionRepository) ListMessages(id string) []store.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.get(id)
	if err != nil {
		return []store.Message{}
	}
	return rec.session.Clone().Messages
}

// Update merges the explicit field set and refreshes last-activity.
func (r *SessionRepository) Update(id string, upd SessionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.get(id)
	if err != nil {
		return err
	}

	if upd.Category != nil {
		rec.session.Category = *upd.Category
	}
	if upd.SurveyAnswers != nil {
		answers := make(map[string]any, len(upd.SurveyAnswers))
		for k, v := range upd.SurveyAnswers {
			answers[k] = v
		}
		rec.session.SurveyAnswers = answers
	}
	if upd.Prompt != nil {
		rec.session.Prompt = *upd.Prompt
	}
	rec.session.LastActivity = r.clock()
	return nil
}

// Delete removes the session and reports whether it was present.
func (r *SessionRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.cache.Get(id); !found {
		return false
	}
	r.cache.Delete(id)
	return true
}

// SweepExpired removes every session whose last activity is strictly older
// than now-maxIdle and returns the count removed. Safe to call concurrently
// with ordinary operations; a session is either fully present or fully gone
// to any reader.
func (r *SessionRepository) SweepExpired(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.clock().Add(-maxIdle)
	removed := 0
	for id, item := range r.cache.Items() {
		rec := item.Object.(*record)
		if rec.session.LastActivity.Before(cutoff) {
			r.cache.Delete(id)
			removed++
		}
	}
	return removed
}

func (r *SessionRepository) Stats() StoreStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := StoreStats{}
	for _, item := range r.cache.Items() {
		rec := item.Object.(*record)
		stats.Sessions++
		stats.TotalMessages += len(rec.session.Messages)
	}
	if stats.Sessions > 0 {
		stats.MeanMessagesPerSession = float64(stats.TotalMessages) / float64(stats.Sessions)
	}
	return stats
}

// get must be called with r.mu held.
func (r *SessionRepository) get(id string) (*record, error) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	return x.(*record), nil
}
