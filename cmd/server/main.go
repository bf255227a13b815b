package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/coursehub/internal/bootstrap"
	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/internal/infrastructure/monitoring"
	"github.com/turtacn/coursehub/internal/interfaces/http"
	"github.com/turtacn/coursehub/internal/interfaces/http/handlers"
	"github.com/turtacn/coursehub/pkg/logger"
)

func main() {
	// Load config
	loader := config.NewLoader(os.Getenv("COURSEHUB_CONFIG"))
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if loader.WatchLogLevel(func(level string) {
		if err := appLogger.SetLevel(level); err != nil {
			appLogger.Warn(ctx, "Ignoring log level change", logger.Error(err))
			return
		}
		appLogger.Info(ctx, "Log level changed", logger.String("level", level))
	}) {
		appLogger.Info(ctx, "Watching config file for log level changes")
	}

	container, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize services", err)
	}
	defer container.Close(context.Background())

	if cfg.Database.AutoMigrate {
		if err := monitoring.TraceOperation(ctx, container.Tracing, "db.migrate", container.DB.AutoMigrate, nil); err != nil {
			appLogger.Fatal(ctx, "Failed to migrate database", err)
		}
	}

	checkers := map[string]handlers.HealthChecker{"database": container.DB}
	if container.Redis != nil {
		checkers["redis"] = container.Redis
	}

	router := http.NewRouter(http.Dependencies{
		Config:   cfg,
		Logger:   appLogger,
		Gate:     container.Gate,
		Audit:    container.Audit,
		Metrics:  container.Metrics,
		Tracing:  container.Tracing,
		Gatherer: container.Registry,
		Health:   handlers.NewHealthHandler(checkers, appLogger),
		Users:    handlers.NewUserHandler(container.Auth, container.Users),
		Courses:  handlers.NewCourseHandler(container.Courses),
		Modules:  handlers.NewModuleHandler(container.Modules),
		Subjects: handlers.NewSubjectHandler(container.Subjects),
	})

	if err := router.Run(ctx); err != nil {
		appLogger.Error(ctx, "HTTP server stopped with error", err)
		return
	}
	appLogger.Info(ctx, "Server exited")
}
