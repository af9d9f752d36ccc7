// Package metadata is the client's durable key-value store. The Session Store
// keeps the bearer token here; values are opaque byte slices.
package metadata

import (
	"context"
)

// Repository is a flat key-value store. Get returns (nil, nil) for a missing
// key and Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
	// Delete removes the given keys atomically.
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
