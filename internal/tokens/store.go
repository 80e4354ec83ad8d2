package tokens

import (
	"context"
	"time"
)

// Store is the credential store holding session tokens. Keys expire on
// their own after the TTL passed to Set; Get returns the empty string for
// a missing or expired key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
