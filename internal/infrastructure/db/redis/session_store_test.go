package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitools/platform-api/internal/core/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, ttl), mr
}

func TestSessionStore_SaveGet(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	in := &domain.Session{
		ID:        "abc",
		UserID:    "user_1",
		CSRFToken: "csrf",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, in))

	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, in.UserID, got.UserID)
	assert.Equal(t, in.CSRFToken, got.CSRFToken)
	assert.True(t, in.CreatedAt.Equal(got.CreatedAt))
}

func TestSessionStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "abc"}))

	mr.FastForward(30 * time.Second)
	_, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("session:abc"), "reads slide the idle expiry")

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_DeleteOnce(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "abc"}))

	require.NoError(t, store.Delete(ctx, "abc"))
	assert.ErrorIs(t, store.Delete(ctx, "abc"), domain.ErrSessionNotFound)

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_DefaultTTL(t *testing.T) {
	store, _ := newTestStore(t, 0)
	assert.Equal(t, defaultSessionTTL, store.ttl)
}

func TestSessionStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	mr.Close()

	err := store.Save(context.Background(), &domain.Session{ID: "abc"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
