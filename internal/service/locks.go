package service

import "sync"

// billLocks serializes access to each bill while letting different bills
// proceed in parallel. Entries are dropped once nobody holds or waits on them.
type billLocks struct {
	mu    sync.Mutex
	locks map[string]*billLock
}

type billLock struct {
	mu   sync.Mutex
	refs int
}

func newBillLocks() *billLocks {
	return &billLocks{locks: make(map[string]*billLock)}
}

// Lock blocks until the caller holds billID and returns the matching unlock.
func (l *billLocks) Lock(billID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[billID]
	if !ok {
		lock = &billLock{}
		l.locks[billID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, billID)
		}
		l.mu.Unlock()
	}
}
