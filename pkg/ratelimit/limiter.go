package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Limiter answers whether one more request is allowed for key within
// the configured window. Implementations must be safe for concurrent
// use from multiple request handlers.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a fixed-window counter held in process memory,
// suitable for single-instance deployments and tests.
type MemoryLimiter struct {
	mu     sync.Mutex
	cache  *cache.Cache
	max    int
	window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cache:  cache.New(window, 2*window),
		max:    max,
		window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, found := l.cache.Get(key); !found {
		// First request of the window starts the counter; expiration
		// marks the window boundary and is preserved by IncrementInt.
		l.cache.Set(key, 1, l.window)
		return l.max >= 1, nil
	}

	n, err := l.cache.IncrementInt(key, 1)
	if err != nil {
		// Key expired between Get and Increment: new window.
		l.cache.Set(key, 1, l.window)
		return l.max >= 1, nil
	}
	return n <= l.max, nil
}
