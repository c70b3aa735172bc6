package service

import (
	"sync"

	"github.com/google/uuid"
)

// BracketLocks serialises load, mutate and save of a single bracket.
// Entries are dropped once nobody holds or waits on them.
type BracketLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*bracketLock
}

type bracketLock struct {
	mu   sync.Mutex
	refs int
}

func NewBracketLocks() *BracketLocks {
	return &BracketLocks{locks: make(map[uuid.UUID]*bracketLock)}
}

// Lock blocks until the bracket is free and returns the matching unlock.
func (l *BracketLocks) Lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &bracketLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *BracketLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
