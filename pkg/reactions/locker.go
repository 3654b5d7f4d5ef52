package reactions

import "sync"

// Locker hands out one mutex per key and forgets keys nobody holds.
type Locker[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocker[K comparable]() *Locker[K] {
	return &Locker[K]{locks: make(map[K]*lockEntry)}
}

// Lock blocks until k is free and returns the matching unlock func.
func (l *Locker[K]) Lock(k K) func() {
	l.mu.Lock()
	e, ok := l.locks[k]
	if !ok {
		e = &lockEntry{}
		l.locks[k] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, k)
		}
		l.mu.Unlock()
	}
}

func (l *Locker[K]) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
