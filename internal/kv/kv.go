package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key.
	ErrNotFound = errors.New("key not found")
)

// Store is the key-value contract credential records are persisted through.
// Values are opaque to the store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutIfAbsent writes value only when key is unset and reports whether the
	// write happened.
	PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
