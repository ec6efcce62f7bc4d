package booking

import "sync"

// roomLocks serializes the availability check and insert per room type. The
// read-then-write overlap check is not atomic on its own; without this lock
// two simultaneous submissions for the same room type and dates could both
// pass the check and both commit.
type roomLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *roomLocks) lock(roomTypeID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[roomTypeID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomTypeID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
