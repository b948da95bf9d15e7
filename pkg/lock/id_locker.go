package lock

import (
	"sync"

	"github.com/apex/log"
)

type idMutex struct {
	mu      sync.Mutex
	holders int
}

// IdLocker serialises work on the same key. Keys that are not held by anyone
// are forgotten so the map only grows with concurrent requests.
type IdLocker struct {
	mapMutex sync.Mutex
	idMap    map[string]*idMutex
}

func NewIdLocker() *IdLocker {
	return &IdLocker{
		idMap: make(map[string]*idMutex),
	}
}

func (l *IdLocker) AcquireLock(id string) {
	l.mapMutex.Lock()
	m, ok := l.idMap[id]
	if !ok {
		m = &idMutex{}
		l.idMap[id] = m
	}
	m.holders++
	l.mapMutex.Unlock()

	// Never block on the id while holding the map mutex.
	m.mu.Lock()
}

func (l *IdLocker) ReleaseLock(id string) {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()

	m, ok := l.idMap[id]
	if !ok {
		log.Errorf("ReleaseLock called on id (%s) with no mutex", id)

		return
	}

	m.holders--
	if m.holders == 0 {
		delete(l.idMap, id)
	}

	m.mu.Unlock()
}

func (l *IdLocker) WithLock(id string, f func() error) error {
	l.AcquireLock(id)
	defer l.ReleaseLock(id)
	return f()
}

// Len is the number of keys currently held or waited on.
func (l *IdLocker) Len() int {
	l.mapMutex.Lock()
	defer l.mapMutex.Unlock()
	return len(l.idMap)
}
