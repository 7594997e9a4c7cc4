// Package sessiontest provides a behavioural test suite shared by every session.Store backend.
package sessiontest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/session"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) session.Store

// Run exercises the Store contract plus any optional interfaces the store implements.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("create and find", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		expires := time.Now().Add(time.Hour)

		created, err := store.Create(ctx, session.CreateParams{OwnerID: "owner-1", SecretKey: "s3cret", ExpiresAt: expires})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, "owner-1", created.OwnerID)
		assert.Equal(t, "s3cret", created.SecretKey)

		found, err := store.Find(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "owner-1", found.OwnerID)
		assert.Equal(t, "s3cret", found.SecretKey)
		assert.WithinDuration(t, expires, found.ExpiresAt, time.Millisecond)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Find(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("invalid params", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Create(ctx, session.CreateParams{SecretKey: "x", ExpiresAt: time.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, session.ErrInvalidSession)

		_, err = store.Create(ctx, session.CreateParams{OwnerID: "o", ExpiresAt: time.Now().Add(time.Hour)})
		assert.ErrorIs(t, err, session.ErrInvalidSession)

		_, err = store.Create(ctx, session.CreateParams{OwnerID: "o", SecretKey: "x", ExpiresAt: time.Now().Add(-time.Second)})
		assert.ErrorIs(t, err, session.ErrInvalidSession)
	})

	t.Run("expired session", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		created, err := store.Create(ctx, session.CreateParams{OwnerID: "o", SecretKey: "x", ExpiresAt: time.Now().Add(100 * time.Millisecond)})
		require.NoError(t, err)

		time.Sleep(150 * time.Millisecond)

		_, err = store.Find(ctx, created.ID)
		require.Error(t, err)
		assert.True(t,
			errors.Is(err, session.ErrSessionExpired) || errors.Is(err, session.ErrSessionNotFound),
			"unexpected error: %v", err)
	})

	t.Run("unique ids under concurrency", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		const n = 20
		ids := make(chan string, n)
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s, err := store.Create(ctx, session.CreateParams{OwnerID: "o", SecretKey: "x", ExpiresAt: time.Now().Add(time.Hour)})
				if assert.NoError(t, err) {
					ids <- s.ID
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[string]struct{})
		for id := range ids {
			seen[id] = struct{}{}
		}
		assert.Len(t, seen, n)
	})

	if _, ok := newStore(t).(session.Revoker); ok {
		t.Run("delete", func(t *testing.T) {
			store := newStore(t)
			revoker := store.(session.Revoker)
			ctx := context.Background()

			created, err := store.Create(ctx, session.CreateParams{OwnerID: "o", SecretKey: "x", ExpiresAt: time.Now().Add(time.Hour)})
			require.NoError(t, err)

			require.NoError(t, revoker.Delete(ctx, created.ID))
			_, err = store.Find(ctx, created.ID)
			assert.ErrorIs(t, err, session.ErrSessionNotFound)

			assert.NoError(t, revoker.Delete(ctx, created.ID))
		})
	}

	if _, ok := newStore(t).(session.OwnerRevoker); ok {
		t.Run("delete by owner", func(t *testing.T) {
			store := newStore(t)
			revoker := store.(session.OwnerRevoker)
			ctx := context.Background()
			exp := time.Now().Add(time.Hour)

			a1, err := store.Create(ctx, session.CreateParams{OwnerID: "a", SecretKey: "x", ExpiresAt: exp})
			require.NoError(t, err)
			a2, err := store.Create(ctx, session.CreateParams{OwnerID: "a", SecretKey: "y", ExpiresAt: exp})
			require.NoError(t, err)
			b1, err := store.Create(ctx, session.CreateParams{OwnerID: "b", SecretKey: "z", ExpiresAt: exp})
			require.NoError(t, err)

			require.NoError(t, revoker.DeleteByOwner(ctx, "a"))

			for _, id := range []string{a1.ID, a2.ID} {
				_, err := store.Find(ctx, id)
				assert.ErrorIs(t, err, session.ErrSessionNotFound)
			}
			_, err = store.Find(ctx, b1.ID)
			assert.NoError(t, err)

			assert.NoError(t, revoker.DeleteByOwner(ctx, "nobody"))
		})
	}

	if _, ok := newStore(t).(session.Cleaner); ok {
		t.Run("delete expired", func(t *testing.T) {
			store := newStore(t)
			cleaner := store.(session.Cleaner)
			ctx := context.Background()

			short, err := store.Create(ctx, session.CreateParams{OwnerID: "o", SecretKey: "x", ExpiresAt: time.Now().Add(50 * time.Millisecond)})
			require.NoError(t, err)
			long, err := store.Create(ctx, session.CreateParams{OwnerID: "o", SecretKey: "y", ExpiresAt: time.Now().Add(time.Hour)})
			require.NoError(t, err)

			time.Sleep(100 * time.Millisecond)

			n, err := cleaner.DeleteExpired(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			_, err = store.Find(ctx, short.ID)
			assert.ErrorIs(t, err, session.ErrSessionNotFound)
			_, err = store.Find(ctx, long.ID)
			assert.NoError(t, err)
		})
	}
}
