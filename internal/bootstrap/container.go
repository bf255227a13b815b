// Package bootstrap builds the service graph from configuration. Both the
// HTTP server and the admin CLI start from a Container.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	appService "github.com/turtacn/coursehub/internal/application/service"
	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/internal/domain/repository"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/internal/infrastructure/audit"
	"github.com/turtacn/coursehub/internal/infrastructure/crypto"
	"github.com/turtacn/coursehub/internal/infrastructure/kms"
	"github.com/turtacn/coursehub/internal/infrastructure/monitoring"
	"github.com/turtacn/coursehub/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/coursehub/internal/infrastructure/persistence/redis"
	"github.com/turtacn/coursehub/internal/infrastructure/ratelimit"
	"github.com/turtacn/coursehub/pkg/logger"
)

// Container holds every long-lived component.
type Container struct {
	Config   *config.Config
	Logger   logger.Logger
	Registry *prometheus.Registry
	Metrics  *monitoring.Metrics
	Tracing  *monitoring.TracingManager
	DB       *postgres.DBConnection
	// Redis is nil when disabled or unreachable at startup.
	Redis *redis.RedisConnection

	Tokens service.TokenService
	Gate   service.AuthorizationGate
	Hasher service.PasswordHasher
	Audit  service.AuditPublisher

	UserRepo repository.UserRepository

	Auth     appService.AuthAppService
	Users    appService.UserAppService
	Courses  appService.CourseAppService
	Modules  appService.ModuleAppService
	Subjects appService.SubjectAppService
}

// New connects to the database, optional Redis and Vault, and wires the services.
// On error every resource opened so far is released.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}
	if err := c.build(ctx); err != nil {
		c.Close(context.Background())
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg, log := c.Config, c.Logger
	var err error

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = monitoring.NewMetrics(c.Registry)

	if c.Tracing, err = monitoring.NewTracingManager(&cfg.Tracing, cfg.Server.Environment, log); err != nil {
		return err
	}

	if c.DB, err = postgres.NewDBConnection(ctx, &cfg.Database, c.Metrics, log); err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		conn := redis.NewRedisConnection(&cfg.Redis, log)
		if connErr := conn.Connect(ctx); connErr != nil {
			log.Warn(ctx, "Redis unavailable, login throttling uses local counters", logger.Error(connErr))
		} else {
			c.Redis = conn
		}
	}

	secret, err := signingSecret(ctx, cfg, log)
	if err != nil {
		return err
	}
	signer, err := crypto.NewJWTSigner(cfg.JWT.Algorithm, secret)
	if err != nil {
		return fmt.Errorf("create token signer: %w", err)
	}

	c.Tokens = service.NewTokenService(signer, cfg.JWT.AccessTokenTTL(),
		service.WithLogoutBackdate(cfg.JWT.LogoutBackdate),
		service.WithTokenMetrics(c.Metrics),
		service.WithTokenLogger(log),
	)
	c.Hasher = crypto.NewBcryptHasher(cfg.Security.BcryptCost)

	var sink service.AuditPublisher
	if cfg.Audit.Enabled {
		sink = audit.NewKafkaPublisher(&cfg.Audit, log)
	} else {
		sink = audit.NewLogPublisher(log)
	}
	c.Audit = audit.NewAsyncPublisher(sink, cfg.Audit.BufferSize, cfg.Audit.PublishTimeout, log)

	db := c.DB.DB()
	c.UserRepo = postgres.NewUserRepository(db, log)
	c.Gate = service.NewAuthorizationGate(c.Tokens, c.UserRepo, c.Metrics, log)

	var throttle appService.LoginThrottle
	if cfg.RateLimit.Enabled {
		throttle = ratelimit.NewLoginLimiter(c.redisClient(), ratelimit.LoginLimiterConfig{
			Attempts: cfg.RateLimit.LoginAttempts,
			Window:   cfg.RateLimit.Window,
		}, c.Metrics, log)
	}

	c.Auth = appService.NewAuthAppService(c.Tokens, c.UserRepo, c.Hasher, throttle, c.Audit, c.Metrics, log)
	c.Users = appService.NewUserAppService(c.UserRepo, c.Hasher, log)
	c.Courses = appService.NewCourseAppService(postgres.NewCourseRepository(db, log), log)
	c.Modules = appService.NewModuleAppService(postgres.NewModuleRepository(db, log), log)
	c.Subjects = appService.NewSubjectAppService(postgres.NewSubjectRepository(db, log), log)

	return nil
}

func (c *Container) redisClient() goredis.UniversalClient {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Client()
}

// signingSecret prefers Vault when enabled and falls back to jwt.secret_key.
func signingSecret(ctx context.Context, cfg *config.Config, log logger.Logger) ([]byte, error) {
	if !cfg.Vault.Enabled {
		return []byte(cfg.JWT.SecretKey), nil
	}
	src, err := kms.NewVaultSecretSource(&cfg.Vault, log)
	if err != nil {
		return nil, err
	}
	secret, err := src.SigningSecret(ctx)
	if err != nil {
		if cfg.JWT.SecretKey == "" {
			return nil, err
		}
		log.Warn(ctx, "Vault unavailable, using configured signing secret", logger.Error(err))
		return []byte(cfg.JWT.SecretKey), nil
	}
	return secret, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close(ctx context.Context) {
	if c.Audit != nil {
		if err := c.Audit.Close(); err != nil {
			c.Logger.Warn(ctx, "Failed to close audit publisher", logger.Error(err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn(ctx, "Failed to close Redis", logger.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn(ctx, "Failed to close database", logger.Error(err))
		}
	}
	if c.Tracing != nil {
		_ = c.Tracing.Shutdown(ctx)
	}
}
