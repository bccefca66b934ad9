package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dkeye/Sketch/internal/domain"
)

// MemoryStore keeps the log in process. Used for dev and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	events []StoredEvent
	byRoom map[domain.RoomID][]int
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byRoom: make(map[domain.RoomID][]int)}
}

func (m *MemoryStore) Append(ctx context.Context, room domain.RoomID, rec Record) (EventID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}

	id := EventID(uuid.NewString())
	m.events = append(m.events, StoredEvent{
		ID:        id,
		RoomID:    room,
		UserID:    rec.UserID,
		ShapeType: rec.Type,
		ShapeData: append([]byte(nil), rec.Data...),
		CreatedAt: rec.Timestamp,
	})
	m.byRoom[room] = append(m.byRoom[room], len(m.events)-1)
	return id, nil
}

func (m *MemoryStore) ListByRoom(ctx context.Context, room domain.RoomID) ([]StoredEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	idx := m.byRoom[room]
	out := make([]StoredEvent, 0, len(idx))
	for _, i := range idx {
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *MemoryStore) ListByType(ctx context.Context, t domain.ShapeType, limit int) ([]StoredEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	var out []StoredEvent
	for i := len(m.events) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.events[i].ShapeType == t {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
