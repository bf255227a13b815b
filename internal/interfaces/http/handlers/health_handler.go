package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/coursehub/pkg/logger"
)

const healthCheckTimeout = 3 * time.Second

// HealthChecker is implemented by the database and Redis connections.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (map[string]interface{}, error)
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checkers  map[string]HealthChecker
	startedAt time.Time
	log       logger.Logger
}

// NewHealthHandler creates a HealthHandler. Nil checkers are skipped.
func NewHealthHandler(checkers map[string]HealthChecker, log logger.Logger) *HealthHandler {
	active := make(map[string]HealthChecker, len(checkers))
	for name, c := range checkers {
		if c != nil {
			active[name] = c
		}
	}
	return &HealthHandler{
		checkers:  active,
		startedAt: time.Now(),
		log:       log.WithComponent("HealthHandler"),
	}
}

// HealthCheck reports every dependency with its details.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	checks, healthy := h.performChecks(c.Request.Context())
	status, httpStatus := "healthy", http.StatusOK
	if !healthy {
		status, httpStatus = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"checks":    checks,
	})
}

// ReadinessCheck is 200 only when every dependency answers.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	_, healthy := h.performChecks(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck answers as long as the process serves HTTP.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *HealthHandler) performChecks(ctx context.Context) (map[string]interface{}, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		healthy = true
		checks  = make(map[string]interface{}, len(h.checkers))
		g       errgroup.Group
	)
	for name, checker := range h.checkers {
		g.Go(func() error {
			info, err := checker.HealthCheck(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				h.log.Warn(ctx, "Health check failed", logger.String("dependency", name), logger.Error(err))
				if info == nil {
					info = map[string]interface{}{"status": "unhealthy"}
				}
			}
			checks[name] = info
			return nil
		})
	}
	_ = g.Wait()
	return checks, healthy
}
