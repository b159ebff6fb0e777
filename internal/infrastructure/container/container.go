package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/confhub-backend/internal/config"
	"github.com/gdugdh24/confhub-backend/internal/delivery/http"
	"github.com/gdugdh24/confhub-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/confhub-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/database"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/events"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/server"
	"github.com/gdugdh24/confhub-backend/internal/repository/postgres"
	"github.com/gdugdh24/confhub-backend/internal/usecase/agenda"
	"github.com/gdugdh24/confhub-backend/internal/usecase/analytics"
	"github.com/gdugdh24/confhub-backend/internal/usecase/auth"
	"github.com/gdugdh24/confhub-backend/internal/usecase/navigation"
	"github.com/gdugdh24/confhub-backend/internal/usecase/networking"
	"github.com/gdugdh24/confhub-backend/internal/usecase/registration"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sqlx.DB
	Redis     *redis.Client
	Publisher events.Publisher
	Gemini    *gemini.GeminiClient
	Server    *server.Server
}

// NewContainer connects to PostgreSQL and the optional Redis, NATS and
// Gemini backends, then builds the HTTP server. Optional backends that fail
// to connect are logged and skipped.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c := &Container{Config: cfg, Logger: logger, DB: db}

	var metricsCache cache.Cache
	if cfg.Redis.Host != "" {
		redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, metrics cache disabled", "error", err)
		} else {
			c.Redis = redisClient
			metricsCache = cache.NewRedisCache(redisClient, "confhub")
		}
	}

	c.Publisher = &events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		publisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn("nats unavailable, domain events disabled", "error", err)
		} else {
			c.Publisher = publisher
		}
	}

	var icebreakers networking.IcebreakerGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini unavailable, using template icebreakers", "error", err)
		} else {
			c.Gemini = geminiClient
			icebreakers = geminiClient
		}
	}

	// Initialize repositories
	tx := postgres.NewDatabase(db)
	userRepo := postgres.NewUserRepository(db)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Expiry, logger)
	registrationUseCase := registration.NewRegistrationUseCase(tx, c.Publisher, logger)
	agendaUseCase := agenda.NewAgendaUseCase(tx, c.Publisher, logger)
	networkingUseCase := networking.NewNetworkingUseCase(tx, c.Publisher, icebreakers, logger)
	navigationUseCase := navigation.NewNavigationUseCase(tx, nil, logger)
	analyticsUseCase := analytics.NewAnalyticsUseCase(tx, metricsCache, cfg.Cache.MetricsTTL, logger)

	// Initialize router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http.NewRouter(
		http.Handlers{
			Auth:         handler.NewAuthHandler(authUseCase),
			Registration: handler.NewRegistrationHandler(registrationUseCase),
			Agenda:       handler.NewAgendaHandler(agendaUseCase),
			Networking:   handler.NewNetworkingHandler(networkingUseCase),
			Navigation:   handler.NewNavigationHandler(navigationUseCase),
			Analytics:    handler.NewAnalyticsHandler(analyticsUseCase),
		},
		middleware.NewAuthMiddleware(authUseCase),
		middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		logger,
	)

	c.Server = server.NewServer(&cfg.Server, &cfg.CORS, router.Setup(), logger)
	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close gemini: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
