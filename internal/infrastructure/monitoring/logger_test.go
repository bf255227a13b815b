package monitoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/pkg/constants"
	"github.com/turtacn/coursehub/pkg/logger"
)

func TestZapLogger_MasksSensitiveFieldsAndAddsContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(core).WithComponent("test")

	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-1")
	log.Info(ctx, "login", logger.String("password", "hunter22"), logger.String("email", "a@example.com"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "***", fields["password"])
	assert.Equal(t, "a@example.com", fields["email"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "test", fields["component"])
}

func TestZapLogger_SetLevel(t *testing.T) {
	zl, err := NewZapLogger(&config.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, "warn", zl.Level())

	require.NoError(t, zl.SetLevel("debug"))
	assert.Equal(t, "debug", zl.Level())

	assert.Error(t, zl.SetLevel("loud"))
	assert.Equal(t, "debug", zl.Level())
}

func TestZapLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	zl, err := NewZapLogger(&config.LogConfig{Level: "verbose"})
	require.NoError(t, err)
	assert.Equal(t, "info", zl.Level())
}
