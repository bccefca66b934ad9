package signal

import (
	"errors"

	"github.com/dkeye/Sketch/internal/app/orch"
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
)

const (
	codeBadPayload    = "bad_payload"
	codeInvalidRoom   = "invalid_room"
	codeInvalidShape  = "invalid_shape"
	codePersistFailed = "persist_failed"
	codeUnknownType   = "unknown_type"
	codeRateLimited   = "rate_limited"
	codeNotConnected  = "not_connected"
	codeInternal      = "internal"
)

type errorFrame struct {
	Type   string        `json:"type"`
	Error  string        `json:"error"`
	RoomID domain.RoomID `json:"roomId,omitempty"`
}

// errorCode maps pipeline errors onto the codes clients see.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomIDEmpty), errors.Is(err, domain.ErrRoomIDInvalid):
		return codeInvalidRoom
	case errors.Is(err, domain.ErrShapeTypeEmpty), errors.Is(err, domain.ErrShapeTypeInvalid), errors.Is(err, domain.ErrShapeTypeReserved):
		return codeInvalidShape
	case errors.Is(err, orch.ErrMalformedMessage):
		return codeBadPayload
	case errors.Is(err, orch.ErrPersistenceFailure):
		return codePersistFailed
	case errors.Is(err, orch.ErrNotConnected):
		return codeNotConnected
	case errors.Is(err, ErrRateLimited):
		return codeRateLimited
	default:
		return codeInternal
	}
}

func (ctl *SignalWSController) sendError(c core.SignalConnection, code string, room domain.RoomID) {
	ctl.sendJSON(c, errorFrame{Type: "error", Error: code, RoomID: room})
}

func (ctl *SignalWSController) handlePing(c core.SignalConnection) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(c, resp)
}
