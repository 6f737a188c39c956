// Package metadata stores flat key-value pairs on the client. The session
// record and the user settings live here.
package metadata

import (
	"context"
)

// Repository is a flat key-value store. Get of a missing key returns
// (nil, nil). The batch operations are atomic: a concurrent reader observes
// either all or none of the keys written by SetMany or removed by DeleteMany.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// GetMany returns the values of the keys that exist.
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	DeleteMany(ctx context.Context, keys []string) error

	// SetManyIfPresent writes values only while guard exists, checking and
	// writing as one atomic step. It reports whether anything was written.
	SetManyIfPresent(ctx context.Context, guard string, values map[string][]byte) (bool, error)
}
