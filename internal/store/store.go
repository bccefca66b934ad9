// Package store is the append-only draw event log, keyed by room.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/Sketch/internal/domain"
)

//go:generate mockgen -source=store.go -destination=../mocks/event_store.go -package=mocks

var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrClosed        = errors.New("store closed")
)

// EventID identifies one appended event. Opaque to callers.
type EventID string

// Record is what the pipeline appends.
type Record struct {
	UserID    domain.UserID
	Type      domain.ShapeType
	Data      json.RawMessage
	Timestamp time.Time
}

// StoredEvent is a Record read back together with its room and id.
type StoredEvent struct {
	ID        EventID          `json:"id"`
	RoomID    domain.RoomID    `json:"roomId"`
	UserID    domain.UserID    `json:"userId"`
	ShapeType domain.ShapeType `json:"shapeType"`
	ShapeData json.RawMessage  `json:"shapeData"`
	CreatedAt time.Time        `json:"createdAt"`
}

// EventStore must be safe for concurrent use.
type EventStore interface {
	// Append adds rec to the end of room's log.
	Append(ctx context.Context, room domain.RoomID, rec Record) (EventID, error)
	// ListByRoom returns room's log in append order. Unknown rooms yield an empty log.
	ListByRoom(ctx context.Context, room domain.RoomID) ([]StoredEvent, error)
	// ListByType returns up to limit events of one shape type, newest first.
	ListByType(ctx context.Context, t domain.ShapeType, limit int) ([]StoredEvent, error)
	Close() error
}
