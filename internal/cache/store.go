package cache

import (
	"context"
	"time"
)

// Store is the shared counter store used for request throttling.
type Store interface {
	// IncrementWithTTL increments key, starting a window of the given length on the
	// first hit, and returns the new count with the time left in the window.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}
