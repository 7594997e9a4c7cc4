package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/session"
	"github.com/dmitrymomot/apikit/pkg/session/redisstore"
	"github.com/dmitrymomot/apikit/pkg/session/sessiontest"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestStore(t *testing.T) {
	sessiontest.Run(t, func(t *testing.T) session.Store {
		_, client := newClient(t)
		return redisstore.New(client)
	})
}

func TestStore_KeyExpiry(t *testing.T) {
	t.Parallel()

	srv, client := newClient(t)
	store := redisstore.New(client, redisstore.WithPrefix("s:"))
	ctx := context.Background()

	sess, err := store.Create(ctx, session.CreateParams{OwnerID: "u1", SecretKey: "k", ExpiresAt: time.Now().Add(time.Minute)})
	require.NoError(t, err)

	require.True(t, srv.Exists("s:"+sess.ID))
	assert.InDelta(t, time.Minute.Seconds(), srv.TTL("s:"+sess.ID).Seconds(), 1)

	members, err := srv.Members("s:owner:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{sess.ID}, members)

	srv.FastForward(2 * time.Minute)

	_, err = store.Find(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.False(t, srv.Exists("s:owner:u1"))
}

func TestStore_DeleteKeepsOtherOwnerEntries(t *testing.T) {
	t.Parallel()

	srv, client := newClient(t)
	store := redisstore.New(client)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	a, err := store.Create(ctx, session.CreateParams{OwnerID: "u1", SecretKey: "k1", ExpiresAt: exp})
	require.NoError(t, err)
	b, err := store.Create(ctx, session.CreateParams{OwnerID: "u1", SecretKey: "k2", ExpiresAt: exp})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, a.ID))

	members, err := srv.Members(redisstore.DefaultPrefix + "owner:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, members)
}

func TestNew_NilClientPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { redisstore.New(nil) })
}
