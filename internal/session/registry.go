package session

import (
	"errors"
	"sync"
)

// Errors for registry operations.
var (
	ErrSessionExists   = errors.New("user already has an active session")
	ErrSessionNotFound = errors.New("no active session for user")
)

// Registry is the shared map of active sessions, keyed by user id. A user
// may hold at most one active session across all game families; insertion
// and removal are atomic with respect to concurrent opens and resolutions.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Put inserts a session for its owner. Returns ErrSessionExists if the user
// already has one; the caller refunds the already-escrowed stake in that
// case.
func (r *Registry) Put(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.OwnerID]; ok {
		return ErrSessionExists
	}
	r.sessions[s.OwnerID] = s
	return nil
}

// Get returns the user's active session.
func (r *Registry) Get(owner int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[owner]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove deletes the user's session. Called by settlement once the session
// is resolved; removing a missing entry is a no-op.
func (r *Registry) Remove(owner int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, owner)
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
