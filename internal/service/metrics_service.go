package service

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Palpatine0/TalkThrough/internal/pkg/logger"
	"github.com/Palpatine0/TalkThrough/pkg/events"
)

// IMetricsService consumes conversation events off the in-process bus and
// keeps usage counters for the stats endpoint.
type IMetricsService interface {
	Consume(ctx context.Context) error
	Snapshot() MetricsSnapshot
}

type MetricsSnapshot struct {
	ConversationsStarted uint64
	TurnsCompleted       uint64
	DegradedTurns        uint64
}

type metricsService struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger

	mu       sync.Mutex
	snapshot MetricsSnapshot
}

func NewMetricsService(pubSub *gochannel.GoChannel, log logger.ILogger) IMetricsService {
	return &metricsService{
		pubSub: pubSub,
		logger: log,
	}
}

func (ms *metricsService) Consume(ctx context.Context) error {
	messages, err := ms.pubSub.Subscribe(ctx, events.TopicConversation)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ms.processMessage(msg)
		}
	}()

	return nil
}

func (ms *metricsService) processMessage(msg *message.Message) {
	evt, err := events.Unmarshal(msg)
	if err != nil {
		ms.logger.Error("metrics", "Failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	ms.mu.Lock()
	switch evt.Type {
	case events.TypeConversationStarted:
		ms.snapshot.ConversationsStarted++
	case events.TypeTurnCompleted:
		ms.snapshot.TurnsCompleted++
		if degraded, ok := evt.Data["degraded"].(bool); ok && degraded {
			ms.snapshot.DegradedTurns++
		}
	}
	ms.mu.Unlock()

	msg.Ack()
}

func (ms *metricsService) Snapshot() MetricsSnapshot {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.snapshot
}
