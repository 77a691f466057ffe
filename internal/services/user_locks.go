package services

import "sync"

// userLocks serializes scheduling operations per user. The allocator reads
// committed occupancy counts and then writes a new review date; two
// interleaved calls for the same user could pick the same least-loaded day,
// so each allocation-and-persist sequence holds its user's lock. Different
// users never contend.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex for userID and returns its unlock function.
func (l *userLocks) lock(userID int64) func() {
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
