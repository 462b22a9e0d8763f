package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		perMin   float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", perMin: 60, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", perMin: 60, burst: 2, calls: 5, wantPass: 2},
		{name: "single token", perMin: 1, burst: 1, calls: 4, wantPass: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.perMin, tt.burst, 0)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("client") {
					passed++
				}
			}

			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := New(1, 1, 0)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.Len())
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	rl := New(60, 1, 0)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	clock = clock.Add(time.Second)
	assert.True(t, rl.Allow("k"))
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	rl := New(60, 1, time.Hour)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow("stale")
	clock = clock.Add(30 * time.Minute)
	rl.Allow("fresh")
	clock = clock.Add(45 * time.Minute)

	rl.evictIdle()

	assert.Equal(t, 1, rl.Len())
	rl.mu.Lock()
	_, ok := rl.limiters["fresh"]
	rl.mu.Unlock()
	assert.True(t, ok)
}

func TestKeyedRateLimiter_Concurrent(t *testing.T) {
	rl := New(60, 10, 0)
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		passed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, passed)
}

func TestKeyedRateLimiter_StopIdempotent(t *testing.T) {
	rl := New(60, 1, time.Minute)
	rl.Stop()
	rl.Stop()
}
