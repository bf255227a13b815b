package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/turtacn/coursehub/internal/infrastructure/monitoring"
	"github.com/turtacn/coursehub/pkg/constants"
)

// RequestMetrics is the HTTP part of monitoring.Metrics.
type RequestMetrics interface {
	ActiveRequestsInc(path, method string)
	ActiveRequestsDec(path, method string)
	ObserveRequest(path, method string, status int, duration time.Duration)
}

// Observability starts a span per request and records request metrics.
// The route template is used as the path label to keep cardinality low.
func Observability(tracing *monitoring.TracingManager, metrics RequestMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "not_found"
		}
		method := c.Request.Method

		ctx := tracing.ExtractTraceContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracing.StartSpan(ctx, method+" "+path, map[string]interface{}{
			"http.method": method,
			"http.route":  path,
		})
		defer span.End()

		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			ctx = context.WithValue(ctx, constants.ContextKeyTraceID, traceID)
			c.Set(string(constants.ContextKeyTraceID), traceID)
		}
		c.Request = c.Request.WithContext(ctx)

		if metrics != nil {
			metrics.ActiveRequestsInc(path, method)
			defer metrics.ActiveRequestsDec(path, method)
		}

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("http.client_ip", c.ClientIP()),
		)
		if status >= 500 {
			if last := c.Errors.Last(); last != nil {
				tracing.RecordError(ctx, last.Err)
			} else {
				span.SetStatus(codes.Error, "server error")
			}
		}
		if metrics != nil {
			metrics.ObserveRequest(path, method, status, time.Since(start))
		}
	}
}
