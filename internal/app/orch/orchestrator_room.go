package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Sketch/internal/app"
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
)

// Join adds the session to room. Rooms need no prior existence.
func (o *Orchestrator) Join(sid core.SessionID, room domain.RoomID) error {
	if err := room.Validate(); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	return mapRegistryErr(o.Registry.Join(sid, room))
}

func (o *Orchestrator) Leave(sid core.SessionID, room domain.RoomID) error {
	if err := room.Validate(); err != nil {
		return fmt.Errorf("leave: %w", err)
	}
	return mapRegistryErr(o.Registry.Leave(sid, room))
}

func mapRegistryErr(err error) error {
	if errors.Is(err, app.ErrUnknownSession) {
		return ErrNotConnected
	}
	return err
}
