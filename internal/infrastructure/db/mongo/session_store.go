package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionsCollection = "sessions"

// SessionStore keeps the persisted session fields in one document per
// namespace in the sessions collection:
//
//	{ _id: <namespace>, values: { token: "...", expirationTime: "..." } }
type SessionStore struct {
	db        *mongo.Database
	namespace string
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(db *mongo.Database, namespace string) *SessionStore {
	return &SessionStore{db: db, namespace: namespace}
}

type sessionDocument struct {
	ID     string            `bson:"_id"`
	Values map[string]string `bson:"values"`
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc sessionDocument
	err := s.db.Collection(sessionsCollection).
		FindOne(ctx, bson.M{"_id": s.namespace}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", key, err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// SetMany upserts the namespace document and sets all values atomically.
func (s *SessionStore) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	set := bson.M{}
	for k, v := range values {
		set["values."+k] = v
	}
	_, err := s.db.Collection(sessionsCollection).UpdateOne(ctx,
		bson.M{"_id": s.namespace},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	_, err := s.db.Collection(sessionsCollection).UpdateOne(ctx,
		bson.M{"_id": s.namespace},
		bson.M{"$unset": unset},
	)
	if err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
