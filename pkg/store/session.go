package store

import "time"

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Message is a single utterance within a session. IDs are assigned by the
// session repository and are strictly increasing within their session.
type Message struct {
	ID               uint64    `json:"id"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	SuggestedReplies []string  `json:"suggestedReplies,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Session represents one advice conversation held in memory.
// The prompt is generated once at creation and the message sequence is
// append-only; both invariants are enforced by the repository.
type Session struct {
	ID            string         `json:"id"`
	Category      string         `json:"relationshipType"`
	SurveyAnswers map[string]any `json:"surveyAnswers"`
	Prompt        string         `json:"-"`
	Messages      []Message      `json:"messages"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastActivity  time.Time      `json:"lastActivity"`
}

// Clone returns a deep copy so callers never share mutable state with the
// repository's own record.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Messages = cloneMessages(s.Messages)
	if s.SurveyAnswers != nil {
		cp.SurveyAnswers = make(map[string]any, len(s.SurveyAnswers))
		for k, v := range s.SurveyAnswers {
			cp.SurveyAnswers[k] = v
		}
	}
	return &cp
}

func cloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
		if m.SuggestedReplies != nil {
			out[i].SuggestedReplies = append([]string(nil), m.SuggestedReplies...)
		}
	}
	return out
}
