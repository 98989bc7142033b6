package events

import "time"

// TopicConversation carries all conversation lifecycle events on the
// in-process bus.
const TopicConversation = "conversation.events"

const (
	TypeConversationStarted = "CONVERSATION_STARTED"
	TypeConversationEnded   = "CONVERSATION_ENDED"
	TypeTurnCompleted       = "TURN_COMPLETED"
)

func NewConversationStarted(sessionID, category string) Event {
	return BaseEvent{
		Type: TypeConversationStarted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"category":   category,
		},
		OccurredAt: time.Now(),
	}
}

func NewConversationEnded(sessionID string) Event {
	return BaseEvent{
		Type: TypeConversationEnded,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}

func NewTurnCompleted(sessionID string, degraded bool) Event {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"degraded":   degraded,
		},
		OccurredAt: time.Now(),
	}
}
