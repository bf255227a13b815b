package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/coursehub/pkg/constants"
)

// AuditEvent records an authentication or authorization outcome.
type AuditEvent struct {
	ID        string                   `json:"id"`
	Type      constants.AuditEventType `json:"type"`
	Subject   string                   `json:"subject,omitempty"`
	ClientIP  string                   `json:"client_ip,omitempty"`
	RequestID string                   `json:"request_id,omitempty"`
	Success   bool                     `json:"success"`
	Timestamp time.Time                `json:"timestamp"`
	Metadata  map[string]string        `json:"metadata,omitempty"`
}

// NewAuditEvent stamps a fresh id and the current UTC time.
func NewAuditEvent(eventType constants.AuditEventType, subject string, success bool) AuditEvent {
	return AuditEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Success:   success,
		Timestamp: time.Now().UTC(),
	}
}
