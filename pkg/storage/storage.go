package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a string key/value store used for durable player records.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Del removes keys; missing keys are ignored.
	Del(ctx context.Context, keys ...string) error
	// Exists reports whether any of the keys is present.
	Exists(ctx context.Context, keys ...string) (bool, error)
}
