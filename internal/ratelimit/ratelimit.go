// Package ratelimit provides the advisory request limiter. The in-memory
// implementation is process-local: counters reset on restart and are not
// shared across instances, an accepted degradation: the limiter is a
// capability injected at the boundary, never a correctness mechanism.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result is the outcome of one limiter check.
type Result struct {
	OK         bool
	RetryAfter time.Duration
}

// Limiter answers "may this key proceed under max events per window".
type Limiter interface {
	Check(key string, max int, window time.Duration) Result
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a keyed token-bucket limiter for single-instance
// deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewMemoryLimiter creates an empty in-memory limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: make(map[string]*entry)}
}

// Check consumes one event for key, allowing bursts up to max and a
// sustained rate of max per window.
func (m *MemoryLimiter) Check(key string, max int, window time.Duration) Result {
	if max <= 0 || window <= 0 {
		return Result{OK: true}
	}

	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(rate.Every(window/time.Duration(max)), max)}
		m.entries[key] = e
	}
	e.lastSeen = time.Now()
	m.prune(window)
	m.mu.Unlock()

	r := e.lim.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return Result{OK: false, RetryAfter: delay}
	}
	return Result{OK: true}
}

// prune drops idle keys once the map grows large. Caller holds mu.
func (m *MemoryLimiter) prune(window time.Duration) {
	if len(m.entries) < 10000 {
		return
	}
	cutoff := time.Now().Add(-2 * window)
	for k, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			delete(m.entries, k)
		}
	}
}
