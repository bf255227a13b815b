package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/pkg/logger"
)

func TestRedisConnection_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	conn := NewRedisConnection(&config.RedisConfig{Address: mr.Addr()}, logger.NewNoopLogger())
	ctx := context.Background()

	assert.Error(t, conn.Ping(ctx), "ping before connect")

	require.NoError(t, conn.Connect(ctx))
	require.NotNil(t, conn.Client())
	require.NoError(t, conn.Connect(ctx), "second connect is a no-op")

	info, err := conn.HealthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", info["status"])

	require.NoError(t, conn.Close())
	assert.Nil(t, conn.Client())
}

func TestRedisConnection_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	conn := NewRedisConnection(&config.RedisConfig{Address: addr}, logger.NewNoopLogger())
	assert.Error(t, conn.Connect(context.Background()))
	assert.Nil(t, conn.Client())
}
