// Package ratelimit throttles requests per source address. Each source
// gets a token bucket; buckets for idle sources are swept out after a
// TTL so memory stays bounded. Source throttling is independent of
// account lockout: a source can be limited while hitting many
// usernames, and an account can lock from an unlimited source.
package ratelimit

import (
	"sync"
	"time"
)

// bucket implements the token bucket algorithm for a single source.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     float64
	refillRate float64 // tokens added per second
	lastRefill time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// allow refills based on elapsed time, then takes one token if available.
func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(float64(b.capacity), b.tokens+elapsed*b.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Limiter throttles attempts per source identifier.
type Limiter struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	capacity   int
	refillRate float64
	ttl        time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewLimiter creates a limiter allowing a burst of capacity attempts
// per source, refilled at refillRate attempts per second. Buckets idle
// longer than ttl are swept periodically; ttl 0 disables the sweep.
func NewLimiter(capacity int, refillRate float64, ttl time.Duration) *Limiter {
	l := &Limiter{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
		ttl:        ttl,
		stop:       make(chan struct{}),
	}

	if ttl > 0 {
		go l.sweep()
	}

	return l
}

// PerWindow creates a limiter allowing capacity attempts per rolling
// window, the "N attempts per M minutes" shape the login endpoint uses.
func PerWindow(capacity int, window time.Duration) *Limiter {
	refillRate := float64(capacity) / window.Seconds()
	return NewLimiter(capacity, refillRate, 4*window)
}

// Admit reports whether an attempt from the source is allowed right
// now, consuming one token when it is.
func (l *Limiter) Admit(source string) bool {
	l.mu.Lock()
	b, exists := l.buckets[source]
	if !exists {
		b = newBucket(l.capacity, l.refillRate)
		l.buckets[source] = b
	}
	l.mu.Unlock()

	return b.allow()
}

// Forget drops the state for a source.
func (l *Limiter) Forget(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, source)
}

// ActiveSources reports how many sources currently hold a bucket.
func (l *Limiter) ActiveSources() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

// Close stops the background sweep.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// sweep periodically removes buckets that have been idle past the TTL.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for source, b := range l.buckets {
				b.mu.Lock()
				idle := now.Sub(b.lastRefill) > l.ttl
				b.mu.Unlock()
				if idle {
					delete(l.buckets, source)
				}
			}
			l.mu.Unlock()
		}
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
