// Package cache holds the key/value stores behind the availability and
// settings read-through caches.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache: miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Version reads a generation counter, "0" when it was never bumped. Entries
// written under a version are orphaned by the next Incr of key.
func Version(ctx context.Context, s Store, key string) (string, error) {
	b, err := s.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
