package audit

import (
	"context"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/logger"
)

// LogPublisher writes audit events to the structured log. Used when Kafka is not configured.
type LogPublisher struct {
	logger logger.Logger
}

func NewLogPublisher(log logger.Logger) service.AuditPublisher {
	return &LogPublisher{logger: log.WithComponent("audit")}
}

func (p *LogPublisher) Publish(ctx context.Context, event models.AuditEvent) error {
	fields := []logger.Field{
		logger.String("event_id", event.ID),
		logger.String("event_type", string(event.Type)),
		logger.String("subject", event.Subject),
		logger.String("client_ip", event.ClientIP),
		logger.Bool("success", event.Success),
		logger.Time("timestamp", event.Timestamp),
	}
	if event.RequestID != "" {
		fields = append(fields, logger.String("request_id", event.RequestID))
	}
	for k, v := range event.Metadata {
		fields = append(fields, logger.String(k, v))
	}
	p.logger.Info(ctx, "audit event", fields...)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
