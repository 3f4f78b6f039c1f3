// Package ratelimit implements fixed-window per-key admission control for
// inbound mentions. Windows are not sliding: a burst straddling a window
// boundary can briefly admit up to twice the nominal rate, which is accepted.
package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	limits      map[string]*entry
	now         func() time.Time
}

func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		limits:      make(map[string]*entry),
		now:         time.Now,
	}
}

// IsAllowed admits the call if the key's current window has capacity,
// opening a fresh window when none exists or the stored one has lapsed.
func (l *Limiter) IsAllowed(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limits[key]
	if !ok || now.After(e.resetAt) {
		l.limits[key] = &entry{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if e.count >= l.maxRequests {
		return false
	}

	e.count++
	return true
}

// Reset forgets a key entirely; its next call opens a fresh window.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.limits, key)
	l.mu.Unlock()
}

// Cleanup drops expired windows so idle keys do not accumulate unbounded.
// Intended to run opportunistically, not as a correctness requirement.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.limits {
		if now.After(e.resetAt) {
			delete(l.limits, key)
			removed++
		}
	}
	return removed
}
