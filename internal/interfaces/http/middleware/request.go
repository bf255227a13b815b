package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(string(constants.ContextKeyRequestID), rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, rid))
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// Logging writes one line per request. 5xx responses and handler errors are logged at error level.
func Logging(log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}

		ctx := c.Request.Context()
		err := c.Errors.Last()
		switch {
		case err != nil && errors.ShouldLogError(err.Err):
			log.Error(ctx, "Request failed", err.Err, fields...)
		case status >= 500:
			log.Error(ctx, "Request failed", nil, fields...)
		case err != nil:
			log.Info(ctx, "Request rejected", append(fields, logger.String("reason", err.Err.Error()))...)
		default:
			log.Info(ctx, "Request handled", fields...)
		}
	}
}

// Recovery turns a panic into a 500 server_error response.
func Recovery(log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("recovery")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "Panic recovered", fmt.Errorf("%v", r),
					logger.String("path", c.Request.URL.Path))
				dto.SendError(c, errors.ErrServerError("An unexpected error occurred"))
			}
		}()
		c.Next()
	}
}
