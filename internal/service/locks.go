package service

import (
	"sync"

	"github.com/google/uuid"
)

// viewLocks serializes actions on the same view within this process.
// Entries are dropped once nobody holds or waits on them.
type viewLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*viewLock
}

type viewLock struct {
	mu   sync.Mutex
	refs int
}

func newViewLocks() *viewLocks {
	return &viewLocks{locks: make(map[uuid.UUID]*viewLock)}
}

// lock blocks until the caller holds id's lock and returns the release func.
func (l *viewLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	vl, ok := l.locks[id]
	if !ok {
		vl = &viewLock{}
		l.locks[id] = vl
	}
	vl.refs++
	l.mu.Unlock()

	vl.mu.Lock()
	return func() {
		vl.mu.Unlock()

		l.mu.Lock()
		vl.refs--
		if vl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *viewLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
