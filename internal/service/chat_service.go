package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/Palpatine0/TalkThrough/internal/dto"
	"github.com/Palpatine0/TalkThrough/internal/pkg/apperror"
	"github.com/Palpatine0/TalkThrough/internal/pkg/logger"
	"github.com/Palpatine0/TalkThrough/internal/repository/memory"
	"github.com/Palpatine0/TalkThrough/pkg/advice/engine"
	"github.com/Palpatine0/TalkThrough/pkg/advice/profile"
	"github.com/Palpatine0/TalkThrough/pkg/advice/prompt"
	"github.com/Palpatine0/TalkThrough/pkg/events"
	"github.com/Palpatine0/TalkThrough/pkg/store"
)

// greetingMessage opens every conversation; it runs through the engine like
// any other turn so the first assistant message is already personalized.
const greetingMessage = "Hello, I'm here to help you navigate this conversation. What would you like to discuss?"

// IChatService is the conversation orchestrator: it builds the prompt once
// per session, appends both sides of every exchange, and is the only caller
// of the advice engine.
type IChatService interface {
	StartConversation(ctx context.Context, request *dto.StartConversationRequest) (*dto.StartConversationResponse, error)
	SendMessage(ctx context.Context, sessionID string, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetMessages(ctx context.Context, sessionID string) (*dto.GetMessagesResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionDetailResponse, error)
	EndConversation(ctx context.Context, sessionID string) error
	Stats(ctx context.Context) (*dto.UsageStatsResponse, error)
}

type chatService struct {
	sessionRepo *memory.SessionRepository
	engine      *engine.Engine
	metrics     IMetricsService
	pubSub      *gochannel.GoChannel
	logger      logger.ILogger
}

func NewChatService(
	sessionRepo *memory.SessionRepository,
	adviceEngine *engine.Engine,
	metrics IMetricsService,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		engine:      adviceEngine,
		metrics:     metrics,
		pubSub:      pubSub,
		logger:      log,
	}
}

func (cs *chatService) StartConversation(ctx context.Context, request *dto.StartConversationRequest) (*dto.StartConversationResponse, error) {
	category := profile.Category(request.RelationshipType)
	if !profile.Valid(category) {
		return nil, invalidCategoryError()
	}

	promptText, err := prompt.Build(category, request.SurveyAnswers)
	if err != nil {
		return nil, invalidCategoryError()
	}

	sessionID := uuid.NewString()
	if _, err := cs.sessionRepo.Create(sessionID, string(category), request.SurveyAnswers, promptText); err != nil {
		if errors.Is(err, memory.ErrDuplicateSession) {
			return nil, apperror.Conflict("DUPLICATE_SESSION", "Session already exists")
		}
		return nil, err
	}

	result := cs.engine.Converse(ctx, greetingMessage, promptText)
	assistantMsg, err := cs.sessionRepo.AppendMessage(sessionID, store.Message{
		Role:             store.MessageRoleAssistant,
		Content:          result.Reply,
		SuggestedReplies: result.Suggestions,
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}

	cs.publish(events.NewConversationStarted(sessionID, string(category)))
	cs.logger.Info("chat", "Conversation started", map[string]interface{}{
		"session_id": sessionID,
		"category":   string(category),
		"degraded":   result.Degraded,
	})

	return &dto.StartConversationResponse{
		SessionID:        sessionID,
		InitialMessage:   result.Reply,
		SuggestedReplies: result.Suggestions,
		RelationshipType: string(category),
		Timestamp:        assistantMsg.CreatedAt,
	}, nil
}

func (cs *chatService) SendMessage(ctx context.Context, sessionID string, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	text := strings.TrimSpace(request.Message)
	if text == "" {
		return nil, apperror.BadRequest("EMPTY_MESSAGE", "Message is required and must be a non-empty string")
	}

	session, err := cs.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	if _, err := cs.sessionRepo.AppendMessage(sessionID, store.Message{
		Role:    store.MessageRoleUser,
		Content: text,
	}); err != nil {
		return nil, mapSessionErr(err)
	}

	result := cs.engine.Converse(ctx, text, session.Prompt)

	assistantMsg, err := cs.sessionRepo.AppendMessage(sessionID, store.Message{
		Role:             store.MessageRoleAssistant,
		Content:          result.Reply,
		SuggestedReplies: result.Suggestions,
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}

	cs.publish(events.NewTurnCompleted(sessionID, result.Degraded))
	if result.Degraded {
		cs.logger.Warn("chat", "Turn completed degraded", map[string]interface{}{
			"session_id": sessionID,
		})
	}

	return &dto.SendMessageResponse{
		SessionID:        sessionID,
		AIResponse:       result.Reply,
		SuggestedReplies: result.Suggestions,
		Timestamp:        assistantMsg.CreatedAt,
	}, nil
}

func (cs *chatService) GetMessages(ctx context.Context, sessionID string) (*dto.GetMessagesResponse, error) {
	session, err := cs.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	messages := make([]dto.MessageResponse, 0, len(session.Messages))
	for _, m := range session.Messages {
		messages = append(messages, dto.MessageResponse{
			ID:               m.ID,
			Role:             m.Role,
			Content:          m.Content,
			SuggestedReplies: m.SuggestedReplies,
			CreatedAt:        m.CreatedAt,
		})
	}

	return &dto.GetMessagesResponse{
		SessionID:        sessionID,
		Messages:         messages,
		TotalMessages:    len(messages),
		RelationshipType: session.Category,
	}, nil
}

func (cs *chatService) GetSession(ctx context.Context, sessionID string) (*dto.SessionDetailResponse, error) {
	session, err := cs.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	return &dto.SessionDetailResponse{
		SessionID:        session.ID,
		RelationshipType: session.Category,
		SurveyAnswers:    session.SurveyAnswers,
		CreatedAt:        session.CreatedAt,
		LastActivity:     session.LastActivity,
		MessageCount:     len(session.Messages),
	}, nil
}

func (cs *chatService) EndConversation(ctx context.Context, sessionID string) error {
	if !cs.sessionRepo.Delete(sessionID) {
		return apperror.NotFound("SESSION_NOT_FOUND", "Session not found")
	}
	cs.publish(events.NewConversationEnded(sessionID))
	return nil
}

func (cs *chatService) Stats(ctx context.Context) (*dto.UsageStatsResponse, error) {
	storeStats := cs.sessionRepo.Stats()
	snapshot := cs.metrics.Snapshot()

	return &dto.UsageStatsResponse{
		Sessions:               storeStats.Sessions,
		TotalMessages:          storeStats.TotalMessages,
		MeanMessagesPerSession: storeStats.MeanMessagesPerSession,
		ConversationsStarted:   snapshot.ConversationsStarted,
		TurnsCompleted:         snapshot.TurnsCompleted,
		DegradedTurns:          snapshot.DegradedTurns,
	}, nil
}

func (cs *chatService) publish(evt events.Event) {
	msg, err := events.Marshal(evt)
	if err != nil {
		cs.logger.Error("chat", "Failed to marshal event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
		return
	}
	if err := cs.pubSub.Publish(events.TopicConversation, msg); err != nil {
		cs.logger.Error("chat", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}

func mapSessionErr(err error) error {
	if errors.Is(err, memory.ErrSessionNotFound) {
		return apperror.NotFound("SESSION_NOT_FOUND", "Session not found")
	}
	return err
}
