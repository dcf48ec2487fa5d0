package container

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/config"
	"github.com/qupid-app/qupid-backend/internal/delivery/http"
	"github.com/qupid-app/qupid-backend/internal/delivery/http/handler"
	"github.com/qupid-app/qupid-backend/internal/delivery/http/middleware"
	"github.com/qupid-app/qupid-backend/internal/infrastructure/database"
	"github.com/qupid-app/qupid-backend/internal/infrastructure/gemini"
	"github.com/qupid-app/qupid-backend/internal/infrastructure/mailer"
	"github.com/qupid-app/qupid-backend/internal/infrastructure/server"
	"github.com/qupid-app/qupid-backend/internal/repository/kv"
	"github.com/qupid-app/qupid-backend/internal/storage"
	"github.com/qupid-app/qupid-backend/internal/usecase/auth"
	"github.com/qupid-app/qupid-backend/internal/usecase/chat"
	"github.com/qupid-app/qupid-backend/internal/usecase/feed"
	"github.com/qupid-app/qupid-backend/internal/usecase/onboarding"
	"github.com/qupid-app/qupid-backend/internal/usecase/profile"
	"github.com/qupid-app/qupid-backend/internal/usecase/subscription"
	"github.com/qupid-app/qupid-backend/internal/usecase/swipe"
	"github.com/qupid-app/qupid-backend/internal/usecase/usage"
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Store  storage.Store
	Gemini *gemini.GeminiClient
	Router *gin.Engine
	Server *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initStore(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	// Bio generation is optional
	var bioGenerator profile.BioGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey, logger)
		if err != nil {
			logger.Warn("gemini client unavailable, bio generation disabled", zap.Error(err))
		} else {
			c.Gemini = geminiClient
			bioGenerator = geminiClient
		}
	}

	location, err := cfg.Usage.Location()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("invalid usage timezone: %w", err)
	}

	// Initialize repositories
	userRepo := kv.NewUserRepository(c.Store)
	sessionRepo := kv.NewSessionRepository(c.Store)
	resetRepo := kv.NewPasswordResetRepository(c.Store)
	profileRepo := kv.NewProfileRepository(c.Store)
	onboardingRepo := kv.NewOnboardingRepository(c.Store)
	subscriptionRepo := kv.NewSubscriptionRepository(c.Store)
	usageRepo := kv.NewUsageRepository(c.Store)
	suggestionRepo := kv.NewSuggestionRepository(c.Store)
	swipeRepo := kv.NewSwipeRepository(c.Store)
	matchRepo := kv.NewMatchRepository(c.Store)
	messageRepo := kv.NewMessageRepository(c.Store)

	validate := validation.New()

	// Initialize use cases
	gate := usage.NewGate(usageRepo, subscriptionRepo, location, logger.Named("usage"))

	authUseCase := auth.NewAuthUseCase(
		userRepo,
		sessionRepo,
		resetRepo,
		mailer.New(&cfg.Mail, logger.Named("mailer")),
		validate,
		auth.Options{
			JWTSecret:         cfg.JWT.AccessSecret,
			SessionTTL:        time.Duration(cfg.JWT.AccessExpiryHours) * time.Hour,
			RememberMeTTL:     time.Duration(cfg.JWT.RememberMeDays) * 24 * time.Hour,
			ResetURL:          cfg.Mail.ResetURL,
			VerificationDelay: cfg.Simulation.VerificationDelay,
		},
		logger.Named("auth"),
	)

	onboardingUseCase := onboarding.NewOnboardingUseCase(
		onboardingRepo,
		profileRepo,
		authUseCase,
		validate,
		logger.Named("onboarding"),
	)

	profileUseCase := profile.NewProfileUseCase(
		profileRepo,
		bioGenerator,
		validate,
		logger.Named("profile"),
	)

	subscriptionUseCase := subscription.NewSubscriptionUseCase(
		subscriptionRepo,
		gate,
		cfg.Simulation.PaymentDelay,
		logger.Named("subscription"),
	)

	feedUseCase := feed.NewFeedUseCase(
		profileRepo,
		suggestionRepo,
		swipeRepo,
		gate,
		cfg.Usage.RecordSuggestions,
		logger.Named("feed"),
	)

	swipeUseCase := swipe.NewSwipeUseCase(
		swipeRepo,
		matchRepo,
		profileRepo,
		suggestionRepo,
		gate,
		logger.Named("swipe"),
	)

	chatUseCase := chat.NewChatUseCase(
		messageRepo,
		matchRepo,
		gate,
		validate,
		logger.Named("chat"),
	)

	// Initialize router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http.NewRouter(
		handler.NewAuthHandler(authUseCase),
		handler.NewOnboardingHandler(onboardingUseCase),
		handler.NewProfileHandler(profileUseCase),
		handler.NewSubscriptionHandler(subscriptionUseCase),
		handler.NewFeedHandler(feedUseCase),
		handler.NewSwipeHandler(swipeUseCase),
		handler.NewChatHandler(chatUseCase),
		middleware.NewAuthMiddleware(authUseCase),
		logger.Named("http"),
	)

	c.Router = router.Setup()
	c.Server = server.NewServer(&cfg.Server, c.Router, logger)
	return c, nil
}

// initStore opens the storage backend selected by STORAGE_TYPE.
func (c *Container) initStore(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Storage.Type {
	case config.StorageMemory:
		c.Store = storage.NewMemoryStore()

	case config.StorageRedis:
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = client
		c.Store = storage.NewRedisStore(client)

	case config.StoragePostgres, config.StorageSQLite:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.Storage.Type == config.StoragePostgres {
			db, err = database.NewPostgresDB(ctx, &cfg.Database)
		} else {
			db, err = database.NewSQLiteDB(ctx, cfg.Storage.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db

		store := storage.NewSQLStore(db)
		if err := store.EnsureTable(ctx); err != nil {
			return fmt.Errorf("failed to prepare database: %w", err)
		}
		c.Store = store

	default:
		return fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}

	c.Logger.Info("storage ready", zap.String("type", cfg.Storage.Type))
	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			c.Logger.Warn("error closing gemini client", zap.Error(err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
