package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
)

type roomPayload struct {
	RoomID domain.RoomID `json:"roomId"`
}

type roomAck struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

func (ctl *SignalWSController) handleJoin(sid core.SessionID, c *WsSignalConn, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad join payload")
		ctl.sendError(c, errorCodeOrPayload(err), "")
		return
	}
	if err := ctl.Orch.Join(sid, p.RoomID); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("join rejected")
		ctl.sendError(c, errorCode(err), p.RoomID)
		return
	}
	ctl.sendJSON(c, roomAck{Type: "joined", RoomID: p.RoomID})
}

// handleLeave drops one membership; the connection stays open.
func (ctl *SignalWSController) handleLeave(sid core.SessionID, c *WsSignalConn, data []byte) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad leave payload")
		ctl.sendError(c, errorCodeOrPayload(err), "")
		return
	}
	if err := ctl.Orch.Leave(sid, p.RoomID); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("leave rejected")
		ctl.sendError(c, errorCode(err), p.RoomID)
		return
	}
	ctl.sendJSON(c, roomAck{Type: "left", RoomID: p.RoomID})
}

// errorCodeOrPayload keeps domain errors raised while decoding, e.g. a fractional roomId.
func errorCodeOrPayload(err error) string {
	if code := errorCode(err); code != codeInternal {
		return code
	}
	return codeBadPayload
}
