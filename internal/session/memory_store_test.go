package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adamjdecaria/cs50wproject1/internal/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := session.New(time.Hour)
	sess.Authenticate(7, "alice")
	sess.AddFlash("Logged in!")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, []string{"Logged in!"}, got.Flashes)

	// Изменение полученной копии не затрагивает хранилище.
	got.PopFlashes()
	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Logged in!"}, again.Flashes)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(store *session.MemoryStore) uuid.UUID
	}{
		{
			name: "Неизвестный ID",
			prepare: func(_ *session.MemoryStore) uuid.UUID {
				return uuid.New()
			},
		},
		{
			name: "Истекшая сессия",
			prepare: func(store *session.MemoryStore) uuid.UUID {
				sess := session.New(-time.Minute)
				require.NoError(t, store.Save(ctx, sess))
				return sess.ID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			id := tt.prepare(store)

			_, err := store.Get(ctx, id)
			require.ErrorIs(t, err, session.ErrNotFound)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := session.New(time.Hour)
			assert.NoError(t, store.Save(ctx, sess))
			_, err := store.Get(ctx, sess.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, store.Len())
}

func TestSession_Flashes(t *testing.T) {
	sess := session.New(time.Hour)
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.IsExpired())

	sess.AddFlash("one")
	sess.AddFlash("two")
	assert.Equal(t, []string{"one", "two"}, sess.PopFlashes())
	assert.Empty(t, sess.PopFlashes())

	sess.Authenticate(1, "bob")
	assert.True(t, sess.IsAuthenticated())
}
