// Package session holds the in-memory record of a user's in-progress wager
// and the registry that enforces one active session per user.
package session

import (
	"math"
	"sync"
	"time"

	"telegram-casino-bot/internal/payout"
)

// Status is the lifecycle state of a session.
type Status int32

const (
	StatusActive Status = iota
	StatusResolved
)

// Session is a single in-progress wager. The stake has already been debited
// by the time the session is visible in the registry; the session only
// tracks game progress until settlement credits the outcome.
//
// Compound read-then-mutate operations must hold the session lock. The
// Active->Resolved transition happens exactly once via Resolve, which is the
// mutual-exclusion gate between concurrent terminal attempts (hazard hit vs
// cash-out, crash tick vs cash-out).
type Session struct {
	OwnerID   int64
	Family    payout.Family
	Stake     int64 // cents, escrowed at creation
	Risk      int
	CreatedAt time.Time

	// Layout is the hazard layout, fixed at creation and never mutated.
	// Its concrete type belongs to the engine that created the session.
	Layout any

	mu     sync.Mutex
	status Status

	// step-reveal progress
	revealed []int

	// growth progress
	multiplier float64
	crashPoint float64
}

// New creates an Active session. It is private to the caller until
// registered; the stake must be escrowed before that happens.
func New(owner int64, family payout.Family, stake int64, risk int, layout any) *Session {
	return &Session{
		OwnerID:    owner,
		Family:     family,
		Stake:      stake,
		Risk:       risk,
		CreatedAt:  time.Now(),
		Layout:     layout,
		multiplier: 1.0,
	}
}

// Lock acquires the session's mutex. Engines hold it across a full
// check-then-act step so reveals and terminal resolutions serialize.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's mutex.
func (s *Session) Unlock() { s.mu.Unlock() }

// ResolveLocked transitions Active->Resolved. It returns false if the
// session was already resolved, in which case the caller must not settle.
// The caller must hold the session lock.
func (s *Session) ResolveLocked() bool {
	if s.status == StatusResolved {
		return false
	}
	s.status = StatusResolved
	return true
}

// ResolvedLocked reports whether the session has reached a terminal state.
// The caller must hold the session lock.
func (s *Session) ResolvedLocked() bool {
	return s.status == StatusResolved
}

// Resolved reports terminal state, acquiring the lock itself.
func (s *Session) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusResolved
}

// StepsLocked returns the number of successful reveals so far.
func (s *Session) StepsLocked() int {
	return len(s.revealed)
}

// Steps returns the number of successful reveals, acquiring the lock.
func (s *Session) Steps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revealed)
}

// HasRevealedLocked reports whether a position was already chosen.
func (s *Session) HasRevealedLocked(pos int) bool {
	for _, p := range s.revealed {
		if p == pos {
			return true
		}
	}
	return false
}

// AddRevealLocked appends a successfully revealed position.
func (s *Session) AddRevealLocked(pos int) {
	s.revealed = append(s.revealed, pos)
}

// RevealedLocked returns the ordered reveal history. The returned slice is
// a copy.
func (s *Session) RevealedLocked() []int {
	out := make([]int, len(s.revealed))
	copy(out, s.revealed)
	return out
}

// Revealed returns the ordered reveal history, acquiring the lock.
func (s *Session) Revealed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.RevealedLocked()
}

// SetCrashPoint records the precommitted failure multiplier. Called once at
// creation, before the session is visible to any other goroutine.
func (s *Session) SetCrashPoint(m float64) {
	s.crashPoint = m
}

// CrashPoint returns the precommitted failure multiplier.
func (s *Session) CrashPoint() float64 {
	return s.crashPoint
}

// MultiplierLocked returns the current growth multiplier.
func (s *Session) MultiplierLocked() float64 {
	return s.multiplier
}

// Multiplier returns the current growth multiplier, acquiring the lock.
func (s *Session) Multiplier() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.multiplier
}

// AdvanceLocked increments the growth multiplier by step and returns the
// new value, rounded to two decimals so repeated ticks do not accumulate
// float drift. The caller must hold the session lock.
func (s *Session) AdvanceLocked(step float64) float64 {
	s.multiplier = math.Round((s.multiplier+step)*100) / 100
	return s.multiplier
}
