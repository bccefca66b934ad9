package app

import (
	"sync"

	"github.com/dkeye/Sketch/internal/domain"
)

type roomLane struct {
	mu   sync.Mutex
	refs int
}

// RoomManager hands out one sequencing lane per room. Work run through
// Sequence for the same room never overlaps, so whatever order it persists
// in is the order it broadcasts in. Lanes are dropped once nobody holds them.
type RoomManager struct {
	mu    sync.Mutex
	lanes map[domain.RoomID]*roomLane
}

func NewRoomManager() *RoomManager {
	return &RoomManager{lanes: make(map[domain.RoomID]*roomLane)}
}

func (m *RoomManager) acquire(room domain.RoomID) *roomLane {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lanes[room]
	if !ok {
		l = &roomLane{}
		m.lanes[room] = l
	}
	l.refs++
	return l
}

func (m *RoomManager) release(room domain.RoomID, l *roomLane) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.lanes, room)
	}
}

// Sequence runs fn inside room's lane.
func (m *RoomManager) Sequence(room domain.RoomID, fn func()) {
	l := m.acquire(room)
	defer m.release(room, l)

	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Active counts rooms with work running or queued.
func (m *RoomManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}
