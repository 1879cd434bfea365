package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value. Callers treat it as
// "absent", never as a hard failure.
var ErrNotFound = errors.New("store: key not found")

// Store is the key-value surface the session layer persists through. Values
// are opaque strings; serialization is the caller's concern.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}
