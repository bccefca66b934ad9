package orch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/detect"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/dkeye/Sketch/internal/store"
	"github.com/rs/zerolog/log"
)

// DrawRequest is one inbound draw_event.
type DrawRequest struct {
	RoomID    domain.RoomID    `json:"roomId"`
	ShapeType domain.ShapeType `json:"shapeType"`
	ShapeData json.RawMessage  `json:"shapeData"`
}

// DrawEnvelope is the outbound frame, identical for client and synthesized events.
type DrawEnvelope struct {
	Type       string           `json:"type"`
	RoomID     domain.RoomID    `json:"roomId"`
	ShapeType  domain.ShapeType `json:"shapeType"`
	ShapeData  json.RawMessage  `json:"shapeData"`
	FromUserID domain.UserID    `json:"fromUserId"`
}

const TypeDrawEvent = "draw_event"

type DrawOutcome struct {
	EventID   store.EventID
	Delivered int
	// Detection is set when the stroke was classified, whether or not it completed.
	Detection    *detect.Result
	CompletionID store.EventID
}

// Draw validates, persists and broadcasts one event, then does the same for its
// completion when the stroke is recognized. Both happen inside the room's lane,
// so they are adjacent in the log and in every member's stream.
func (o *Orchestrator) Draw(ctx context.Context, sid core.SessionID, req DrawRequest) (DrawOutcome, error) {
	var out DrawOutcome
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return out, ErrNotConnected
	}
	if err := req.RoomID.Validate(); err != nil {
		return out, fmt.Errorf("draw: %w", err)
	}
	if err := req.ShapeType.ValidateClient(); err != nil {
		return out, fmt.Errorf("draw: %w", err)
	}
	if len(req.ShapeData) == 0 || !json.Valid(req.ShapeData) {
		return out, fmt.Errorf("%w: shapeData", ErrMalformedMessage)
	}

	var detection *detect.Result
	if req.ShapeType == domain.ShapePencil {
		var pencil domain.PencilData
		if err := json.Unmarshal(req.ShapeData, &pencil); err != nil {
			return out, fmt.Errorf("%w: pencil: %w", ErrMalformedMessage, err)
		}
		if o.Detector != nil && len(pencil.Path) >= o.Opts.MinClassifyPoints {
			res := o.Detector.Classify(pencil.Path)
			detection = &res
		}
	}
	out.Detection = detection

	// Detached so that events accepted before a disconnect still land.
	ctx = context.WithoutCancel(ctx)

	var err error
	o.Rooms.Sequence(req.RoomID, func() {
		event := domain.DrawEvent{
			RoomID:    req.RoomID,
			UserID:    sess.UserID,
			ShapeType: req.ShapeType,
			ShapeData: req.ShapeData,
			Timestamp: o.now(),
		}
		out.EventID, out.Delivered, err = o.persistAndPublish(ctx, event)
		if err != nil || !o.completes(detection) {
			return
		}

		completion, cerr := completionEvent(event, *detection, o.now())
		if cerr != nil {
			log.Error().Err(cerr).Str("module", "orch").Str("room", string(req.RoomID)).Msg("encode completion")
			return
		}
		out.CompletionID, _, err = o.persistAndPublish(ctx, completion)
		if err != nil {
			err = fmt.Errorf("completion: %w", err)
			return
		}
		o.Metrics.Completion(string(detection.Label))
		log.Info().Str("module", "orch").Str("room", string(req.RoomID)).Str("user", string(sess.UserID)).
			Str("label", string(detection.Label)).Float64("confidence", detection.Confidence).Msg("shape completed")
	})
	return out, err
}

func (o *Orchestrator) completes(d *detect.Result) bool {
	return d != nil && d.Label != detect.LabelUnknown && d.Confidence >= o.Opts.CompletionThreshold
}

// persistAndPublish must run inside the room's lane.
func (o *Orchestrator) persistAndPublish(ctx context.Context, e domain.DrawEvent) (store.EventID, int, error) {
	pctx := ctx
	if o.Opts.PersistTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, o.Opts.PersistTimeout)
		defer cancel()
	}
	id, err := o.Store.Append(pctx, e.RoomID, store.Record{
		UserID:    e.UserID,
		Type:      e.ShapeType,
		Data:      e.ShapeData,
		Timestamp: e.Timestamp,
	})
	if err != nil {
		o.Metrics.PersistFailure()
		log.Error().Err(err).Str("module", "orch").Str("room", string(e.RoomID)).Str("shape", string(e.ShapeType)).Msg("persist failed, not broadcasting")
		return "", 0, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	o.Metrics.DrawEvent(string(e.ShapeType))

	frame, err := json.Marshal(DrawEnvelope{
		Type:       TypeDrawEvent,
		RoomID:     e.RoomID,
		ShapeType:  e.ShapeType,
		ShapeData:  e.ShapeData,
		FromUserID: e.UserID,
	})
	if err != nil {
		return id, 0, fmt.Errorf("encode envelope: %w", err)
	}
	res := o.publish(e.RoomID, frame)
	return id, res.SendTo, nil
}

func completionEvent(src domain.DrawEvent, d detect.Result, at time.Time) (domain.DrawEvent, error) {
	shape, err := json.Marshal(d.Completion)
	if err != nil {
		return domain.DrawEvent{}, err
	}
	data, err := json.Marshal(domain.CompletionData{
		Completion:    shape,
		DetectedLabel: string(d.Label),
		Confidence:    d.Confidence,
	})
	if err != nil {
		return domain.DrawEvent{}, err
	}
	return domain.DrawEvent{
		RoomID:    src.RoomID,
		UserID:    src.UserID,
		ShapeType: domain.ShapeCompletion,
		ShapeData: data,
		Timestamp: at,
	}, nil
}
