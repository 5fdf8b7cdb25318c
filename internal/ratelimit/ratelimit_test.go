package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeClock returns a limiter whose clock only moves when advance is called.
func newFakeClock(t *testing.T, rps float64, burst int) (*KeyedRateLimiter, func(time.Duration)) {
	t.Helper()
	l := NewWithIdleTTL(rps, burst, time.Hour)
	t.Cleanup(l.Stop)

	clock := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l.mu.Lock()
	l.now = func() time.Time { return clock }
	l.mu.Unlock()
	return l, func(d time.Duration) {
		l.mu.Lock()
		clock = clock.Add(d)
		l.mu.Unlock()
	}
}

func TestAllow_Burst(t *testing.T) {
	tests := []struct {
		name  string
		burst int
		calls int
		want  int
	}{
		{"within burst", 3, 3, 3},
		{"beyond burst", 2, 5, 2},
		{"non-positive burst allows one", 0, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newFakeClock(t, 1, tt.burst)
			passed := 0
			for range tt.calls {
				if l.Allow("203.0.113.7") {
					passed++
				}
			}
			assert.Equal(t, tt.want, passed)
		})
	}
}

func TestCheck_RetryAfter(t *testing.T) {
	// 20 webhook deliveries per minute, burst 1.
	l, advance := newFakeClock(t, 20.0/60, 1)

	ok, wait := l.Check("mux")
	require.True(t, ok)
	assert.Zero(t, wait)

	ok, wait = l.Check("mux")
	assert.False(t, ok)
	assert.InDelta(t, 3*time.Second, wait, float64(10*time.Millisecond))

	// A refused check does not consume the token that is refilling.
	advance(3 * time.Second)
	ok, _ = l.Check("mux")
	assert.True(t, ok)
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	l, _ := newFakeClock(t, 1, 1)

	assert.True(t, l.Allow("198.51.100.1"))
	assert.False(t, l.Allow("198.51.100.1"))
	assert.True(t, l.Allow("198.51.100.2"))
	assert.Equal(t, 2, l.Len())
}

func TestEvict_IdleKeys(t *testing.T) {
	l, advance := newFakeClock(t, 1, 1)

	l.Allow("old")
	advance(45 * time.Minute)
	l.Allow("recent")
	require.False(t, l.Allow("recent"))

	advance(30 * time.Minute)
	assert.Equal(t, 1, l.evict())
	assert.Equal(t, 1, l.Len())
	assert.Zero(t, l.evict(), "recent key survives")
}

func TestStop_Idempotent(t *testing.T) {
	l := New(1, 1)
	l.Stop()
	l.Stop()
}
