package dto

import "time"

type StartConversationRequest struct {
	RelationshipType string         `json:"relationshipType" validate:"required"`
	SurveyAnswers    map[string]any `json:"surveyAnswers" validate:"required"`
}

type StartConversationResponse struct {
	SessionID        string    `json:"sessionId"`
	InitialMessage   string    `json:"initialMessage"`
	SuggestedReplies []string  `json:"suggestedReplies"`
	RelationshipType string    `json:"relationshipType"`
	Timestamp        time.Time `json:"timestamp"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type SendMessageResponse struct {
	SessionID        string    `json:"sessionId"`
	AIResponse       string    `json:"aiResponse"`
	SuggestedReplies []string  `json:"suggestedReplies"`
	Timestamp        time.Time `json:"timestamp"`
}

type MessageResponse struct {
	ID               uint64    `json:"id"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	SuggestedReplies []string  `json:"suggestedReplies,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type GetMessagesResponse struct {
	SessionID        string            `json:"sessionId"`
	Messages         []MessageResponse `json:"messages"`
	TotalMessages    int               `json:"totalMessages"`
	RelationshipType string            `json:"relationshipType"`
}

// SessionDetailResponse returns session metadata without message bodies.
type SessionDetailResponse struct {
	SessionID        string         `json:"sessionId"`
	RelationshipType string         `json:"relationshipType"`
	SurveyAnswers    map[string]any `json:"surveyAnswers"`
	CreatedAt        time.Time      `json:"createdAt"`
	LastActivity     time.Time      `json:"lastActivity"`
	MessageCount     int            `json:"messageCount"`
}

type UsageStatsResponse struct {
	Sessions               int     `json:"sessions"`
	TotalMessages          int     `json:"totalMessages"`
	MeanMessagesPerSession float64 `json:"meanMessagesPerSession"`
	ConversationsStarted   uint64  `json:"conversationsStarted"`
	TurnsCompleted         uint64  `json:"turnsCompleted"`
	DegradedTurns          uint64  `json:"degradedTurns"`
}
