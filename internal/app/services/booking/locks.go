package booking

import (
	"sync"

	domainroom "bookflow/internal/domain/room"
)

// roomLocks serializes booking creation per room. The conflict query
// and the insert are separate storage operations; without the lock two
// concurrent requests for overlapping dates could both pass the check
// before either persists.
type roomLocks struct {
	mu    sync.Mutex
	locks map[domainroom.RoomID]*sync.Mutex
}

func (l *roomLocks) lock(id domainroom.RoomID) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[domainroom.RoomID]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
