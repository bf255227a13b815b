package audit

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/domain/service"
	"github.com/turtacn/coursehub/pkg/logger"
)

const (
	defaultBufferSize     = 1024
	defaultPublishTimeout = 2 * time.Second
)

type pendingEvent struct {
	ctx   context.Context
	event models.AuditEvent
}

// AsyncPublisher hands events to a background worker so callers never wait
// on the underlying publisher. When the buffer is full the event is dropped.
type AsyncPublisher struct {
	next    service.AuditPublisher
	queue   chan pendingEvent
	timeout time.Duration
	logger  logger.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncPublisher starts a worker draining into next. Non-positive
// bufferSize or timeout fall back to defaults.
func NewAsyncPublisher(next service.AuditPublisher, bufferSize int, timeout time.Duration, log logger.Logger) *AsyncPublisher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	p := &AsyncPublisher{
		next:    next,
		queue:   make(chan pendingEvent, bufferSize),
		timeout: timeout,
		logger:  log.WithComponent("AsyncAuditPublisher"),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues event and returns immediately. The request context is
// detached from cancellation so values such as trace ids survive.
func (p *AsyncPublisher) Publish(ctx context.Context, event models.AuditEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn(ctx, "Audit publisher closed, dropping event", logger.String("event_type", string(event.Type)))
		return nil
	}

	select {
	case p.queue <- pendingEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		p.logger.Warn(ctx, "Audit buffer full, dropping event",
			logger.String("event_type", string(event.Type)),
			logger.String("event_id", event.ID),
		)
	}
	return nil
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for pe := range p.queue {
		ctx, cancel := context.WithTimeout(pe.ctx, p.timeout)
		if err := p.next.Publish(ctx, pe.event); err != nil {
			p.logger.Warn(ctx, "Failed to publish audit event",
				logger.String("event_type", string(pe.event.Type)),
				logger.Error(err),
			)
		}
		cancel()
	}
}

// Close stops accepting events, waits for queued ones and closes next.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}
