// Package middleware provides the gin middleware chain: request ids, logging,
// panic recovery, tracing and metrics, and the bearer-token guards.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/coursehub/internal/application/dto"
	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

// ExtractBearer returns the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively and separated by a single space.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", errors.ErrUnauthenticated("Not authenticated")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) || parts[1] == "" {
		return "", errors.ErrUnauthenticated("Invalid authorization header")
	}
	return parts[1], nil
}

// RequireAuth verifies the bearer token and stores the identity on the context.
func RequireAuth(gate service.AuthorizationGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractBearer(c.GetHeader(constants.AuthorizationHeader))
		if err != nil {
			dto.SendError(c, err)
			return
		}
		identity, err := gate.CurrentIdentity(c.Request.Context(), token)
		if err != nil {
			dto.SendError(c, err)
			return
		}
		c.Set(string(constants.ContextKeyIdentity), identity)
		c.Next()
	}
}

// RequireSuperUser lets the request through only for an existing super user.
// Both outcomes are published to audit when a publisher is given.
func RequireSuperUser(gate service.AuthorizationGate, audit service.AuditPublisher, log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("RequireSuperUser")
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token, err := ExtractBearer(c.GetHeader(constants.AuthorizationHeader))
		if err != nil {
			dto.SendError(c, err)
			return
		}

		user, err := gate.RequirePrivileged(ctx, token)
		if err != nil {
			if errors.IsCode(err, constants.ErrCodeForbidden) {
				event := models.NewAuditEvent(constants.AuditEventAccessDenied, "", false)
				event.ClientIP = c.ClientIP()
				event.Metadata = map[string]string{"path": c.FullPath(), "method": c.Request.Method}
				publish(c, audit, log, event)
			}
			dto.SendError(c, err)
			return
		}

		c.Set(string(constants.ContextKeyUser), user)
		c.Set(string(constants.ContextKeyIdentity), &models.Identity{Email: user.Email})

		event := models.NewAuditEvent(constants.AuditEventPrivilegedGranted, user.Email, true)
		event.ClientIP = c.ClientIP()
		event.Metadata = map[string]string{"path": c.FullPath(), "method": c.Request.Method}
		publish(c, audit, log, event)

		c.Next()
	}
}

func publish(c *gin.Context, audit service.AuditPublisher, log logger.Logger, event models.AuditEvent) {
	if audit == nil {
		return
	}
	event.RequestID = c.GetString(string(constants.ContextKeyRequestID))
	if err := audit.Publish(c.Request.Context(), event); err != nil {
		log.Warn(c.Request.Context(), "Failed to publish audit event", logger.Error(err))
	}
}

// CurrentUser returns the super user stored by RequireSuperUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(string(constants.ContextKeyUser))
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentIdentity returns the identity stored by RequireAuth or RequireSuperUser.
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(string(constants.ContextKeyIdentity))
	if !ok {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok
}
