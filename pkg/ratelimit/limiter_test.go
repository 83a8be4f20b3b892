package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryLimiterEnforcesBudget(t *testing.T) {
	limiter := NewMemoryLimiter(100, time.Minute)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		allowed, err := limiter.Allow(ctx, "client-a")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d rejected, want all %d allowed", i+1, 100)
		}
	}

	allowed, err := limiter.Allow(ctx, "client-a")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if allowed {
		t.Error("request 101 allowed, want rejected")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "client-a"); !allowed {
		t.Fatal("first request for client-a rejected")
	}
	if allowed, _ := limiter.Allow(ctx, "client-a"); allowed {
		t.Error("second request for client-a allowed, want rejected")
	}
	if allowed, _ := limiter.Allow(ctx, "client-b"); !allowed {
		t.Error("first request for client-b rejected by client-a's budget")
	}
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	limiter := NewMemoryLimiter(1, 30*time.Millisecond)
	ctx := context.Background()

	if allowed, _ := limiter.Allow(ctx, "client-a"); !allowed {
		t.Fatal("first request rejected")
	}
	if allowed, _ := limiter.Allow(ctx, "client-a"); allowed {
		t.Fatal("over-budget request allowed")
	}

	time.Sleep(50 * time.Millisecond)

	if allowed, _ := limiter.Allow(ctx, "client-a"); !allowed {
		t.Error("request after window expiry rejected, want fresh budget")
	}
}

func TestMemoryLimiterConcurrentAccess(t *testing.T) {
	const max = 50
	limiter := NewMemoryLimiter(max, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 2*max; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := limiter.Allow(ctx, "shared")
			if err != nil {
				t.Errorf("Allow returned error: %v", err)
				return
			}
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != max {
		t.Errorf("allowed %d requests, want exactly %d", allowedCount, max)
	}
}
