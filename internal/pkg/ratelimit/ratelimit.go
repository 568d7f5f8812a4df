// Package ratelimit guards against rapid duplicate submissions (e.g. a
// double key-press on an inline keyboard) corrupting session state.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultInterval is the minimum spacing between accepted actions per user.
const DefaultInterval = 400 * time.Millisecond

// Limiter tracks the last accepted action time per user and rejects any
// action arriving within the configured interval of the previous one.
// Rejections are silent no-ops: no state is mutated for a rejected action.
type Limiter struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[int64]time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter with the given minimum inter-action interval.
// A non-positive interval falls back to DefaultInterval.
func New(interval time.Duration, opts ...Option) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := &Limiter{
		interval: interval,
		now:      time.Now,
		last:     make(map[int64]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether an action from the user may proceed. An accepted
// action updates the user's last-action timestamp; a rejected one does not,
// so a burst of clicks only ever lets the first through per interval.
func (l *Limiter) Allow(userID int64) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.last[userID]; ok && now.Sub(prev) < l.interval {
		return false
	}
	l.last[userID] = now
	return true
}

// Interval returns the configured minimum spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
