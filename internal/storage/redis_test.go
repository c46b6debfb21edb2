package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_SetGetRemove(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	b := Scope(NewRedis(client), "profile-redis-test", nil)
	require.NoError(t, b.Remove(ctx, KeyUser))

	require.NoError(t, b.SetJSON(ctx, KeyUser, map[string]string{"id": "u1"}))
	var got map[string]string
	require.True(t, b.GetJSON(ctx, KeyUser, &got))
	assert.Equal(t, "u1", got["id"])

	require.NoError(t, b.Remove(ctx, KeyUser))
	_, ok := b.Get(ctx, KeyUser)
	assert.False(t, ok)
}
