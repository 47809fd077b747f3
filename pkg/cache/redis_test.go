package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/supportsim/pkg/cache"
)

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := cache.New(ctx,
		cache.WithAddress("127.0.0.1:1"),
		cache.WithDialTimeout(100*time.Millisecond),
	)
	assert.Error(t, err)
	assert.Nil(t, c)
}

// TestCache_Integration runs against a live server when REDIS_TEST_ADDR is set.
func TestCache_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()

	c, err := cache.New(ctx, cache.WithAddress(addr), cache.WithKeyPrefix("supportsim-test:"))
	require.NoError(t, err)
	defer c.Close()

	type payload struct {
		Total int `json:"total"`
	}

	require.NoError(t, c.Set(ctx, "k", payload{Total: 35}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 35, got.Total)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), redis.Nil)
}
