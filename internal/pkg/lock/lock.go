// Package lock serializes balance mutations per user. Every ledger write
// for a user happens under that user's mutex, so debit-then-append never
// interleaves with another operation on the same account.
package lock

import "sync"

type userMutex struct {
	mu sync.Mutex
}

// UserLock hands out one mutex per user ID. Mutexes are created lazily and
// recycled through a pool when the LoadOrStore race is lost.
type UserLock struct {
	locks sync.Map // map[int64]*userMutex
	pool  sync.Pool
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{
		pool: sync.Pool{
			New: func() any { return &userMutex{} },
		},
	}
}

func (ul *UserLock) getLock(userID int64) *userMutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*userMutex)
	}

	fresh := ul.pool.Get().(*userMutex)
	actual, loaded := ul.locks.LoadOrStore(userID, fresh)
	if loaded {
		ul.pool.Put(fresh)
	}
	return actual.(*userMutex)
}

// Lock acquires the user's mutex, blocking until it is free.
func (ul *UserLock) Lock(userID int64) {
	ul.getLock(userID).mu.Lock()
}

// Unlock releases the user's mutex.
func (ul *UserLock) Unlock(userID int64) {
	if v, ok := ul.locks.Load(userID); ok {
		v.(*userMutex).mu.Unlock()
	}
}

// TryLock acquires the user's mutex without blocking.
func (ul *UserLock) TryLock(userID int64) bool {
	return ul.getLock(userID).mu.TryLock()
}

// WithLock runs fn while holding the user's mutex.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}
