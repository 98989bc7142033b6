package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Palpatine0/TalkThrough/internal/config"
	"github.com/Palpatine0/TalkThrough/internal/controller"
	"github.com/Palpatine0/TalkThrough/internal/pkg/logger"
	"github.com/Palpatine0/TalkThrough/internal/repository/memory"
	"github.com/Palpatine0/TalkThrough/internal/service"
	"github.com/Palpatine0/TalkThrough/pkg/advice/engine"
	"github.com/Palpatine0/TalkThrough/pkg/llm/factory"
)

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	RelationshipController controller.IRelationshipController

	// Background Services (Exposed for main.go to run)
	MetricsService service.IMetricsService

	// Shared infrastructure main.go needs for lifecycle management
	SessionRepo  *memory.SessionRepository
	Logger       logger.ILogger
	AdviceEngine *engine.Engine
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		providerModel(cfg),
		cfg.Ai.GeminiAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.Provider)

	adviceEngine := engine.NewEngine(llmProvider, sysLogger, engine.WithTimeout(cfg.Ai.RequestTimeout))

	// 4. In-Memory Session Storage (constructed once, injected everywhere)
	sessionRepo := memory.NewSessionRepository()

	// 5. Services
	metricsService := service.NewMetricsService(pubSub, sysLogger)
	chatService := service.NewChatService(sessionRepo, adviceEngine, metricsService, pubSub, sysLogger)
	relationshipService := service.NewRelationshipService()

	// 6. Controllers
	return &Container{
		ChatController:         controller.NewChatController(chatService),
		RelationshipController: controller.NewRelationshipController(relationshipService),
		MetricsService:         metricsService,
		SessionRepo:            sessionRepo,
		Logger:                 sysLogger,
		AdviceEngine:           adviceEngine,
	}
}

func providerModel(cfg *config.Config) string {
	if cfg.Ai.Provider == "ollama" {
		return cfg.Ai.OllamaModel
	}
	return cfg.Ai.GeminiModel
}
