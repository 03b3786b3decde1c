package realtime

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercisePresence(t *testing.T, p Presence) {
	t.Helper()
	ctx := context.Background()

	got, err := p.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, p.Set(ctx, "alice", "c2"))
	require.NoError(t, p.Set(ctx, "alice", "c1"))
	require.NoError(t, p.Set(ctx, "alice", "c1"))

	got, err = p.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, got)

	require.NoError(t, p.Remove(ctx, "alice", "c1"))
	require.NoError(t, p.Remove(ctx, "alice", "missing"))
	got, err = p.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, got)

	require.NoError(t, p.Remove(ctx, "alice", "c2"))
	got, err = p.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryPresence(t *testing.T) {
	exercisePresence(t, NewMemoryPresence())
}

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestRedisPresence(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	require.NoError(t, client.FlushDB(context.Background()).Err())

	exercisePresence(t, NewRedisPresence(client, time.Minute))
}
