package cache

import (
	"context"
	"time"
)

// Service is a minimal cache API storing raw bytes with TTL. The market
// aggregator keeps its snapshot here; the memory backend is the default,
// the redis backend lets several API replicas share one snapshot.
type Service interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
