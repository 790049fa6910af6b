package ports

import "context"

// SessionStore is the durable key-value storage the session is mirrored to.
// All keys live under one namespace chosen by the implementation.
type SessionStore interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetMany writes all pairs at once.
	SetMany(ctx context.Context, values map[string]string) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}
