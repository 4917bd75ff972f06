package bootstrap

import (
	"log"

	"attention-cv-be/internal/config"
	"attention-cv-be/internal/controller"
	"attention-cv-be/internal/pkg/logger"
	"attention-cv-be/internal/repository/memory"
	"attention-cv-be/internal/service"
	"attention-cv-be/pkg/document"
	"attention-cv-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	SupervisorController controller.ISupervisorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// System Logger (Exposed for main.go to Sync on exit)
	Logger logger.ILogger
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

	// 3. Providers
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	documentService := document.NewService()

	// Event consumer gets its own file log to keep the main log clean.
	eventLogger := logger.NewIsolatedLogger("logs/events.log")

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.EventTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, eventLogger)

	supervisorService := service.NewSupervisorService(
		cfg,
		llmProvider,
		sessionRepo,
		documentService,
		publisherService,
	)

	// 5. Controllers
	supervisorController := controller.NewSupervisorController(supervisorService)

	sysLogger.Info("bootstrap", "Container initialized", map[string]interface{}{
		"llm_provider": cfg.Ai.Provider,
		"llm_model":    cfg.Ai.Model,
	})

	return &Container{
		SupervisorController: supervisorController,
		ConsumerService:      consumerService,
		Logger:               sysLogger,
	}
}
