package service

import (
	"context"

	"github.com/turtacn/coursehub/internal/domain/models"
	domainService "github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/logger"
)

// publishAudit sends event and logs a failure. Audit never fails the request.
func publishAudit(ctx context.Context, p domainService.AuditPublisher, log logger.Logger, event models.AuditEvent) {
	if p == nil {
		return
	}
	if rid, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
		event.RequestID = rid
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Warn(ctx, "Failed to publish audit event",
			logger.String("event_type", string(event.Type)),
			logger.Error(err),
		)
	}
}
