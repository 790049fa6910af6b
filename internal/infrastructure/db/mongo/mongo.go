// Package mongo keeps the gateway session in MongoDB, one document per
// namespace in the "sessions" collection. It suits installs that already run
// a shared MongoDB next to the invoicing backend.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "invoicer"
)

// Config captures the settings for the MongoDB database holding the session.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect returns a client and the database holding the sessions collection.
// The client identifies itself as "invoicer" in server logs, and the same
// timeout bounds both server selection and the startup ping.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
