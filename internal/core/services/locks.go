package services

import "sync"

// userLocks serializes read-modify-write sequences per user. The streak and
// entitlement records are check-then-increment state, so each user's updates
// must have a single logical owner even though different users can proceed
// in parallel.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
