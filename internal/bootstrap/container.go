package bootstrap

import (
	"context"
	"log"

	"ship-computer-be/internal/config"
	"ship-computer-be/internal/controller"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/internal/service"
	"ship-computer-be/internal/websocket"
	"ship-computer-be/pkg/database"
	"ship-computer-be/pkg/engine/gateway"
	"ship-computer-be/pkg/engine/progression"
	"ship-computer-be/pkg/engine/semcache"
	"ship-computer-be/pkg/engine/state"
	"ship-computer-be/pkg/engine/turbo"
	"ship-computer-be/pkg/llm"
	"ship-computer-be/pkg/llm/factory"

	pktNats "ship-computer-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const broadcastTopic = "SHIP_STATE_BROADCAST"

type Container struct {
	// Controllers
	CommandController controller.ICommandController
	UserController    controller.IUserController
	AdminController   controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	EventService    service.IEventService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Resolved admin token, generated when the environment gives none.
	AdminToken string

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. State Store (Redis with in-memory fallback)
	store, rdb := database.Connect(cfg.Redis, sysLogger)
	stateManager := state.NewManager(store, sysLogger)
	if err := stateManager.Initialize(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to seed world state: %v", err)
	}

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS telemetry is optional; the ship runs fine without it.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 4. Model Gateway
	var provider llm.LLMProvider
	if cfg.LLM.MockMode || (cfg.LLM.Endpoint == "" && cfg.LLM.Provider != "ollama") {
		log.Printf("[INFO] No LLM backend configured, running in mock mode")
	} else {
		var err error
		provider, err = factory.NewLLMProvider(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.Endpoint, cfg.LLM.APIKey)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
		}
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)
	}
	gw := gateway.New(provider, sysLogger, cfg.LLM.MockMode)

	// 5. Engine Components
	turboMatcher := turbo.NewMatcher(stateManager, sysLogger)
	semCache := semcache.NewCache(store, sysLogger)
	progressionEngine := progression.New(stateManager, sysLogger)

	// 6. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/bridge.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(pubSub, broadcastTopic)
	consumerService := service.NewConsumerService(pubSub, broadcastTopic, wsHub)

	commandService := service.NewCommandService(
		stateManager,
		turboMatcher,
		semCache,
		gw,
		progressionEngine,
		publisherService,
		natsPub,
		sysLogger,
	)
	userService := service.NewUserService(stateManager, sysLogger)
	eventService := service.NewEventService(stateManager, publisherService, natsPub, cfg.Event, sysLogger)

	adminToken := cfg.App.AdminToken
	if adminToken == "" {
		adminToken = uuid.NewString()
		log.Printf("[WARN] ADMIN_TOKEN not set, generated one for this run: %s", adminToken)
	}

	return &Container{
		CommandController: controller.NewCommandController(commandService, stateManager),
		UserController:    controller.NewUserController(userService),
		AdminController:   controller.NewAdminController(eventService),

		ConsumerService: consumerService,
		EventService:    eventService,

		WebSocketHub: wsHub,
		AdminToken:   adminToken,
		Logger:       sysLogger,
	}
}
