// Package http wires the gin engine: middleware chain, routes and server lifecycle.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/internal/infrastructure/monitoring"
	"github.com/turtacn/coursehub/internal/interfaces/http/handlers"
	"github.com/turtacn/coursehub/internal/interfaces/http/middleware"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/logger"
)

// Dependencies are the collaborators the router needs.
type Dependencies struct {
	Config   *config.Config
	Logger   logger.Logger
	Gate     service.AuthorizationGate
	Audit    service.AuditPublisher
	Metrics  *monitoring.Metrics
	Tracing  *monitoring.TracingManager
	Gatherer prometheus.Gatherer

	Health   *handlers.HealthHandler
	Users    *handlers.UserHandler
	Courses  *handlers.CourseHandler
	Modules  *handlers.ModuleHandler
	Subjects *handlers.SubjectHandler
}

// Router owns the gin engine and the HTTP server.
type Router struct {
	engine *gin.Engine
	deps   Dependencies
	server *http.Server
}

// NewRouter builds the engine and registers every route.
func NewRouter(deps Dependencies) *Router {
	if deps.Config.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := &Router{engine: gin.New(), deps: deps}
	r.setupRoutes()
	return r
}

// Engine exposes the handler, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupRoutes() {
	cfg := r.deps.Config
	log := r.deps.Logger

	r.engine.Use(middleware.Recovery(log))
	r.engine.Use(middleware.RequestID())
	if r.deps.Tracing != nil {
		var metrics middleware.RequestMetrics
		if r.deps.Metrics != nil {
			metrics = r.deps.Metrics
		}
		r.engine.Use(middleware.Observability(r.deps.Tracing, metrics))
	}
	r.engine.Use(middleware.Logging(log))
	if len(cfg.Server.AllowedOrigins) > 0 {
		r.engine.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", constants.AuthorizationHeader, "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "WWW-Authenticate"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.engine.GET("/health", r.deps.Health.HealthCheck)
	r.engine.GET("/ready", r.deps.Health.ReadinessCheck)
	r.engine.GET("/live", r.deps.Health.LivenessCheck)

	if r.deps.Gatherer != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	if !cfg.Server.IsProduction() {
		pprof.Register(r.engine)
	}

	superUser := middleware.RequireSuperUser(r.deps.Gate, r.deps.Audit, log)

	users := r.engine.Group("/user")
	{
		users.POST("/login", r.deps.Users.Login)
		users.POST("/register", r.deps.Users.Register)
		users.POST("/logout", r.deps.Users.Logout)
		users.GET("", r.deps.Users.List)
		users.GET("/:id", r.deps.Users.Get)
		users.POST("", superUser, r.deps.Users.Create)
		users.POST("/create_many", superUser, r.deps.Users.CreateMany)
	}

	courses := r.engine.Group("/courses")
	{
		courses.GET("", r.deps.Courses.List)
		courses.GET("/:id", r.deps.Courses.Get)
		courses.POST("", superUser, r.deps.Courses.Create)
		courses.POST("/course_many", superUser, r.deps.Courses.CreateMany)
		courses.PUT("/:id", superUser, r.deps.Courses.Update)
		courses.DELETE("/:id", superUser, r.deps.Courses.Delete)
	}

	modules := r.engine.Group("/modules")
	{
		modules.GET("", r.deps.Modules.List)
		modules.GET("/:id", r.deps.Modules.Get)
		modules.POST("", superUser, r.deps.Modules.Create)
		modules.PUT("/:id", superUser, r.deps.Modules.Update)
		modules.DELETE("/:id", superUser, r.deps.Modules.Delete)
	}

	subjects := r.engine.Group("/subjects")
	{
		subjects.GET("", r.deps.Subjects.List)
		subjects.GET("/:id", r.deps.Subjects.Get)
		subjects.POST("", superUser, r.deps.Subjects.Create)
		subjects.POST("/subject", superUser, r.deps.Subjects.Create)
		subjects.PUT("/:id", superUser, r.deps.Subjects.Update)
		subjects.DELETE("/:id", superUser, r.deps.Subjects.Delete)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             string(constants.ErrCodeNotFound),
			"error_description": "The requested resource was not found",
		})
	})
}

// Run serves until ctx is done, then shuts down gracefully.
func (r *Router) Run(ctx context.Context) error {
	srv := r.deps.Config.Server
	r.server = &http.Server{
		Addr:           srv.Addr(),
		Handler:        r.engine,
		ReadTimeout:    srv.ReadTimeout,
		WriteTimeout:   srv.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		r.deps.Logger.Info(ctx, "Starting HTTP server", logger.String("address", srv.Addr()))
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := srv.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	r.deps.Logger.Info(shutdownCtx, "Shutting down HTTP server")
	if err := r.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
