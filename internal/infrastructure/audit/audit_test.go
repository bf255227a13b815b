package audit

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/coursehub/internal/domain/models"
	"github.com/turtacn/coursehub/internal/infrastructure/monitoring"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/errors"
	"github.com/turtacn/coursehub/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, logger.NewNoopLogger())

	event := models.NewAuditEvent(constants.AuditEventLogin, "a@example.com", true)
	event.ClientIP = "10.0.0.1"
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "a@example.com", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "user.login", string(msg.Headers[0].Value))

	var got models.AuditEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, constants.AuditEventLogin, got.Type)
	assert.Equal(t, "10.0.0.1", got.ClientIP)
	assert.True(t, got.Success)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := newKafkaPublisher(w, logger.NewNoopLogger())

	err := p.Publish(context.Background(), models.NewAuditEvent(constants.AuditEventLogout, "a@example.com", true))
	assert.EqualError(t, err, "broker unavailable")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(logger.NewNoopLogger())
	event := models.NewAuditEvent(constants.AuditEventAccessDenied, "b@example.com", false)
	event.Metadata = map[string]string{"reason": "not a super user"}

	assert.NoError(t, p.Publish(context.Background(), event))
	assert.NoError(t, p.Close())
}

// blockingPublisher waits on release before recording each event.
type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	events  []models.AuditEvent
	ctxErrs []error
	closed  bool
}

func (b *blockingPublisher) Publish(ctx context.Context, e models.AuditEvent) error {
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
	return ctx.Err()
}

func (b *blockingPublisher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func TestAsyncPublisher_DoesNotWaitForSink(t *testing.T) {
	sink := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(sink, 8, time.Minute, logger.NewNoopLogger())

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Publish(context.Background(), models.NewAuditEvent(constants.AuditEventLogin, "a@example.com", true)))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(sink.release)
	require.NoError(t, p.Close())
	assert.Len(t, sink.events, 3)
	assert.True(t, sink.closed)
}

func TestAsyncPublisher_DetachesRequestCancellation(t *testing.T) {
	sink := &blockingPublisher{release: make(chan struct{})}
	close(sink.release)
	p := NewAsyncPublisher(sink, 8, time.Second, logger.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Publish(ctx, models.NewAuditEvent(constants.AuditEventLogout, "a@example.com", true)))
	require.NoError(t, p.Close())

	require.Len(t, sink.ctxErrs, 1)
	assert.NoError(t, sink.ctxErrs[0])
}

func TestAsyncPublisher_SinkTimeout(t *testing.T) {
	sink := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(sink, 8, 20*time.Millisecond, logger.NewNoopLogger())

	require.NoError(t, p.Publish(context.Background(), models.NewAuditEvent(constants.AuditEventLogin, "a@example.com", true)))
	require.NoError(t, p.Close())

	require.Len(t, sink.ctxErrs, 1)
	assert.ErrorIs(t, sink.ctxErrs[0], context.DeadlineExceeded)
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	sink := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(sink, 1, time.Minute, logger.NewNoopLogger())

	// The worker holds at most one event and the buffer one more.
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Publish(context.Background(), models.NewAuditEvent(constants.AuditEventLogin, "a@example.com", true)))
	}
	close(sink.release)
	require.NoError(t, p.Close())
	assert.LessOrEqual(t, len(sink.events), 2)
	assert.NotEmpty(t, sink.events)

	// Publishing after Close is a no-op.
	assert.NoError(t, p.Publish(context.Background(), models.NewAuditEvent(constants.AuditEventLogin, "a@example.com", true)))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_CompletionLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	p := newKafkaPublisher(&fakeWriter{}, monitoring.NewZapLoggerFromCore(core))

	p.onCompletion([]kafka.Message{{Key: []byte("a")}}, nil)
	assert.Equal(t, 0, logs.Len())

	p.onCompletion([]kafka.Message{{Key: []byte("a")}, {Key: []byte("b")}}, errors.New("leader not available"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(2), logs.All()[0].ContextMap()["messages"])
}
