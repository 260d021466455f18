package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/adamjdecaria/cs50wproject1/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тест выполняется только при заданном REDIS_URL.
func TestRedisStore_Live(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL не задан")
	}

	ctx := context.Background()
	client, err := session.ConnectRedis(ctx, redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewRedisStore(client)

	sess := session.New(time.Minute)
	sess.Authenticate(42, "alice")
	sess.AddFlash("Logged in!")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, []string{"Logged in!"}, got.Flashes)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestConnectRedis_BadURL(t *testing.T) {
	_, err := session.ConnectRedis(context.Background(), "://bad")
	require.Error(t, err)
}
