// Package mongostore keeps sessions in a MongoDB collection.
//
// EnsureIndexes creates a TTL index on expires_at so the server purges expired
// documents on its own. The TTL monitor runs about once a minute, so Find also
// checks expiry itself.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/apikit/pkg/session"
)

// DefaultCollection is the collection name used by New.
const DefaultCollection = "sessions"

type document struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"owner_id"`
	SecretKey string    `bson:"secret_key"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d document) session() *session.Session {
	return &session.Session{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		SecretKey: d.SecretKey,
		ExpiresAt: d.ExpiresAt.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Store implements session.Store, session.Revoker and session.OwnerRevoker.
type Store struct {
	coll *mongo.Collection
}

// New returns a Store over db.DefaultCollection.
func New(db *mongo.Database) *Store {
	return NewWithCollection(db.Collection(DefaultCollection))
}

// NewWithCollection returns a Store over coll.
func NewWithCollection(coll *mongo.Collection) *Store {
	if coll == nil {
		panic("mongostore: nil collection")
	}
	return &Store{coll: coll}
}

// EnsureIndexes creates the TTL index on expires_at and the owner lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("sessions_ttl"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("sessions_owner"),
		},
	})
	if err != nil {
		return fmt.Errorf("mongostore: create indexes: %w", err)
	}
	return nil
}

// Create inserts a new session document.
func (s *Store) Create(ctx context.Context, p session.CreateParams) (*session.Session, error) {
	sess, err := session.New(p)
	if err != nil {
		return nil, err
	}

	doc := document{
		ID:        sess.ID,
		OwnerID:   sess.OwnerID,
		SecretKey: sess.SecretKey,
		ExpiresAt: sess.ExpiresAt,
		CreatedAt: sess.CreatedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongostore: create session: %w", err)
	}
	return sess, nil
}

// Find loads a session document by id.
func (s *Store) Find(ctx context.Context, id string) (*session.Session, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongostore: find session: %w", err)
	}

	sess := doc.session()
	if sess.IsExpired() {
		return nil, session.ErrSessionExpired
	}
	return sess, nil
}

// Delete removes one session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("mongostore: delete session: %w", err)
	}
	return nil
}

// DeleteByOwner removes every session of ownerID.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{{Key: "owner_id", Value: ownerID}}); err != nil {
		return fmt.Errorf("mongostore: delete owner sessions: %w", err)
	}
	return nil
}
