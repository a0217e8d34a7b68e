package db

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"restaurant-console/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnections_CloseWithNothingOpened(t *testing.T) {
	c := NewConnections(config.NewTestConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, c.Close(context.Background()))
	assert.NoError(t, c.Close(context.Background()))
}

func TestConnections_RedisUnreachable(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Redis.Addr = "127.0.0.1:1"
	c := NewConnections(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	client, err := c.Redis(context.Background())

	require.Error(t, err)
	assert.Nil(t, client)
	assert.NoError(t, c.Close(context.Background()))
}

func TestConnections_TasksClientIsShared(t *testing.T) {
	c := NewConnections(config.NewTestConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	first := c.Tasks()
	assert.Same(t, first, c.Tasks())
	assert.NoError(t, c.Close(context.Background()))
}
