package bootstrap

import (
	"log"

	"tuddy-chat-be/internal/config"
	"tuddy-chat-be/internal/controller"
	"tuddy-chat-be/internal/pkg/logger"
	"tuddy-chat-be/internal/repository/memory"
	"tuddy-chat-be/internal/repository/unitofwork"
	"tuddy-chat-be/internal/service"
	"tuddy-chat-be/pkg/chat/resolver"
	"tuddy-chat-be/pkg/chat/router"
	"tuddy-chat-be/pkg/chat/usage"
	"tuddy-chat-be/pkg/generator"
	"tuddy-chat-be/pkg/storage"

	pktNats "tuddy-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	ArtifactController controller.IArtifactController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Infrastructure handles main.go needs for shutdown
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is best-effort; the app runs without it.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis backs the daily usage counter
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Invalid REDIS_URL, usage limiting disabled: %v", err)
	} else {
		rdb = redis.NewClient(opt)
	}

	// 3. Upstream generator
	generatorClient := generator.NewClient(cfg.Generator, sysLogger)

	// 4. Storage
	blobStore, err := storage.NewLocalStore(cfg.App.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize blob storage: %v", err)
	}

	// 5. Domain components
	contextResolver := resolver.New()
	modeRouter := router.New(cfg.Generator.PlainChatPath, cfg.Generator.ContextChatPath)
	usageTracker := usage.NewTracker(rdb, cfg.Chat.DailyTurnLimit)
	ownerCache := memory.NewSessionOwnerCache()

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Chat.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Chat.IngestTopic,
		uowFactory,
		generatorClient,
		natsPub,
	)
	artifactService := service.NewArtifactService(
		uowFactory,
		blobStore,
		generatorClient,
		publisherService,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		artifactService,
		generatorClient,
		contextResolver,
		modeRouter,
		usageTracker,
		ownerCache,
		natsPub,
		cfg.Chat.HistoryTurns,
		sysLogger,
	)

	// 7. Controllers
	chatController := controller.NewChatController(chatService)
	artifactController := controller.NewArtifactController(artifactService)
	healthController := controller.NewHealthController(generatorClient)

	return &Container{
		ChatController:     chatController,
		ArtifactController: artifactController,
		HealthController:   healthController,
		ConsumerService:    consumerService,
		NatsPublisher:      natsPub,
	}
}
