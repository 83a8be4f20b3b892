package bootstrap

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-gateway-be/internal/config"
	"ai-gateway-be/internal/controller"
	"ai-gateway-be/internal/guard"
	"ai-gateway-be/internal/pkg/logger"
	"ai-gateway-be/internal/repository/implementation"
	"ai-gateway-be/internal/repository/unitofwork"
	"ai-gateway-be/internal/service"
	"ai-gateway-be/pkg/llm"
	"ai-gateway-be/pkg/llm/openai"
	pktNats "ai-gateway-be/pkg/nats"
	"ai-gateway-be/pkg/ratelimit"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	UserController  controller.IUserController
	AiController    controller.IAiController
	AdminController controller.IAdminController

	// Request pipeline
	Guard       *guard.Guard
	RateLimiter ratelimit.Limiter

	// Infrastructure (exposed for graceful shutdown)
	Logger    logger.ILogger
	Publisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		// Events are fire-and-forget; the API keeps serving without NATS.
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	limiter := newRateLimiter(cfg, sysLogger)

	provider := openai.NewProvider(cfg.Ai.APIKey, cfg.Ai.BaseURL, cfg.Ai.DefaultModel)
	costs := llm.DefaultCostTable()
	if cfg.Ai.DefaultModel != "" {
		costs.DefaultModel = cfg.Ai.DefaultModel
	}

	// 3. Request pipeline
	issuer := guard.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	requestGuard := guard.NewGuard(issuer, implementation.NewUserRepository(db), sysLogger)

	// 4. Services
	authService := service.NewAuthService(uowFactory, issuer, natsPub, sysLogger)
	userService := service.NewUserService(uowFactory, sysLogger)
	conversationService := service.NewConversationService(uowFactory, costs.DefaultModel)
	usageService := service.NewUsageService(uowFactory, natsPub, sysLogger)
	chatService := service.NewChatService(uowFactory, provider, usageService, costs, sysLogger)
	adminService := service.NewAdminService(uowFactory, cfg, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		UserController:  controller.NewUserController(userService, requestGuard),
		AiController:    controller.NewAiController(conversationService, chatService, usageService, requestGuard),
		AdminController: controller.NewAdminController(adminService, userService, requestGuard),
		Guard:           requestGuard,
		RateLimiter:     limiter,
		Logger:          sysLogger,
		Publisher:       natsPub,
	}
}

// newRateLimiter prefers the Redis fixed-window limiter so limits hold
// across replicas, falling back to per-process counting when no Redis
// is configured.
func newRateLimiter(cfg *config.Config, sysLogger logger.ILogger) ratelimit.Limiter {
	if cfg.App.RedisURL == "" {
		sysLogger.Info("bootstrap", "Using in-memory rate limiter", nil)
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory rate limiter", err)
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}

	sysLogger.Info("bootstrap", "Using Redis rate limiter", map[string]interface{}{
		"addr": opt.Addr,
	})
	return ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
}
