package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Sketch/internal/app/orch"
	"github.com/dkeye/Sketch/internal/core"
)

func (ctl *SignalWSController) handleDraw(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var req orch.DrawRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad draw payload")
		ctl.sendError(c, errorCodeOrPayload(err), "")
		return
	}

	if ctl.Limiter != nil {
		if sess, ok := ctl.Orch.Registry.GetSession(sid); ok && !ctl.Limiter.Allow(sess.UserID) {
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("user", string(sess.UserID)).Msg("draw rate limited")
			ctl.sendError(c, codeRateLimited, req.RoomID)
			return
		}
	}

	if _, err := ctl.Orch.Draw(ctx, sid, req); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(req.RoomID)).Msg("draw rejected")
		ctl.sendError(c, errorCode(err), req.RoomID)
	}
}
