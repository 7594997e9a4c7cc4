// Package redisstore keeps sessions in Redis with native key expiry.
//
// Each session is a JSON value under <prefix><id> with a PX expiry matching
// the session lifetime. A set under <prefix>owner:<ownerID> indexes the
// sessions of a principal so they can be revoked together.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/apikit/pkg/session"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "session:"

// Store implements session.Store, session.Revoker and session.OwnerRevoker.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New returns a Store backed by client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	if client == nil {
		panic("redisstore: nil redis client")
	}
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new session and indexes it under its owner.
func (s *Store) Create(ctx context.Context, p session.CreateParams) (*session.Session, error) {
	sess, err := session.New(p)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("redisstore: encode session: %w", err)
	}

	ttl := max(sess.TTL(), time.Millisecond)
	ownerKey := s.ownerKey(sess.OwnerID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(sess.ID), payload, ttl)
		pipe.SAdd(ctx, ownerKey, sess.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redisstore: create session: %w", err)
	}

	// The owner index lives as long as its longest session.
	current, err := s.client.PTTL(ctx, ownerKey).Result()
	if err == nil && current < ttl {
		_ = s.client.PExpire(ctx, ownerKey, ttl).Err()
	}

	return sess, nil
}

// Find loads a session by id.
func (s *Store) Find(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, session.ErrSessionExpired
	}
	return sess, nil
}

// Delete removes a session and its owner index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	sess, err := s.load(ctx, id)
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		pipe.SRem(ctx, s.ownerKey(sess.OwnerID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: delete session: %w", err)
	}
	return nil
}

// DeleteByOwner removes every session of ownerID.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) error {
	ownerKey := s.ownerKey(ownerID)

	ids, err := s.client.SMembers(ctx, ownerKey).Result()
	if err != nil {
		return fmt.Errorf("redisstore: list owner sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	keys = append(keys, ownerKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redisstore: delete owner sessions: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, id string) (*session.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("redisstore: decode session: %w", err)
	}
	return &sess, nil
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) ownerKey(ownerID string) string {
	return s.prefix + "owner:" + ownerID
}
