package redis

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRedisSessionStorage(t *testing.T) {
	addr := os.Getenv("TXWIZARD_REDIS_ADDR")
	if addr == "" {
		t.Skip("TXWIZARD_REDIS_ADDR not set")
	}
	conf := Config{
		Addrs:     strings.Split(addr, ","),
		Namespace: "test",
		SessionId: "session-test",
		TTL:       2 * time.Second,
	}
	storage := NewRedisSessionStorage(conf)
	defer storage.Close()
	ctx := context.Background()

	require.NoError(t, storage.Remove(ctx))
	_, found, err := storage.Get(ctx)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, storage.Set(ctx, []byte("state")))
	data, found, err := storage.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("state"), data)

	time.Sleep(3 * time.Second)
	_, found, err = storage.Get(ctx)
	require.NoError(t, err)
	require.False(t, found)
}
