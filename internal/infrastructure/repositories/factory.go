package repositories

import (
	"context"

	"playgate/internal/core/ports"
	"playgate/internal/infrastructure/repositories/memory"
	redisrepo "playgate/internal/infrastructure/repositories/redis"
	"playgate/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates repositories with fallback support
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	// Try to connect to Redis if enabled
	if cfg.Redis.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
	}

	return factory, nil
}

// CreateCatalogRepository creates a catalog repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateCatalogRepository() ports.CatalogRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisCatalogRepository(f.redisClient)
	}
	return memory.NewMemoryCatalogRepository()
}

// CreateSessionRepository creates a session repository (Redis or memory with fallback)
func (f *RepositoryFactory) CreateSessionRepository() ports.SessionRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisSessionRepository(f.redisClient)
	}
	return memory.NewMemorySessionRepository()
}

// CreateEntitlementProvider creates the entitlement facts provider.
// Billing lives in another system; the in-memory provider stands in until
// the billing client lands.
func (f *RepositoryFactory) CreateEntitlementProvider() ports.EntitlementProvider {
	return memory.NewMemoryEntitlementRepository()
}

// CreatePlanProvider maps account plans to device caps from config.
func (f *RepositoryFactory) CreatePlanProvider(cfg *config.Config, entitlements ports.EntitlementProvider) ports.PlanProvider {
	return memory.NewConfigPlanProvider(entitlements, cfg.Devices.PlanCaps, cfg.Devices.DefaultCap)
}

// StoreName reports which backing store the factory selected.
func (f *RepositoryFactory) StoreName() string {
	if f.useRedis && f.redisClient != nil {
		return "redis"
	}
	return "memory"
}

// Close closes Redis connection if used
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck checks Redis connection health
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
