// Package ratelimit keeps one token bucket per key, typically a client IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long a key may go unused before its bucket is
// dropped. A dropped key starts again with a full bucket.
const DefaultIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter rate limits independently per key.
type KeyedRateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	done     chan struct{}
	stopOnce sync.Once
}

// New allows rps requests per second per key with the given burst.
func New(rps float64, burst int) *KeyedRateLimiter {
	return NewWithIdleTTL(rps, burst, DefaultIdleTTL)
}

// NewWithIdleTTL is New with a custom idle eviction window.
func NewWithIdleTTL(rps float64, burst int, ttl time.Duration) *KeyedRateLimiter {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	if burst <= 0 {
		burst = 1
	}
	l := &KeyedRateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: ttl,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go l.evictLoop(ttl / 2)
	return l
}

// Allow takes a token for key if one is available.
func (l *KeyedRateLimiter) Allow(key string) bool {
	ok, _ := l.Check(key)
	return ok
}

// Check takes a token for key. When none is available it returns false and
// the time until the next one.
func (l *KeyedRateLimiter) Check(key string) (bool, time.Duration) {
	lim, now := l.bucketFor(key)
	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, 0
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Len returns the number of tracked keys.
func (l *KeyedRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends background eviction.
func (l *KeyedRateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *KeyedRateLimiter) bucketFor(key string) (*rate.Limiter, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter, now
}

// evict drops buckets idle longer than the TTL and returns how many.
func (l *KeyedRateLimiter) evict() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idleTTL)
	n := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

func (l *KeyedRateLimiter) evictLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-t.C:
			l.evict()
		}
	}
}
