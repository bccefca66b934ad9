package orch

import (
	"errors"
	"time"

	"github.com/dkeye/Sketch/internal/app"
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/detect"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/dkeye/Sketch/internal/store"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotConnected       = errors.New("session not connected")
	ErrMalformedMessage   = errors.New("malformed message")
	ErrPersistenceFailure = errors.New("persistence failure")
)

const (
	DefaultPersistTimeout      = 5 * time.Second
	DefaultMinClassifyPoints   = 8
	DefaultCompletionThreshold = 0.55
)

type Options struct {
	PersistTimeout time.Duration
	// Pencil strokes shorter than this are never classified.
	MinClassifyPoints int
	// A detection must reach this confidence to produce a completion event.
	// Separate from detect.AdmissionThreshold.
	CompletionThreshold float64
}

func DefaultOptions() Options {
	return Options{
		PersistTimeout:      DefaultPersistTimeout,
		MinClassifyPoints:   DefaultMinClassifyPoints,
		CompletionThreshold: DefaultCompletionThreshold,
	}
}

type Orchestrator struct {
	Registry    *app.Registry
	Rooms       *app.RoomManager
	Broadcaster *app.Broadcaster
	Policy      app.Policy
	Store       store.EventStore
	Detector    detect.Detector
	Metrics     *app.Metrics
	Opts        Options
	Now         func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

// Connect registers an authenticated connection with an empty room set.
func (o *Orchestrator) Connect(sid core.SessionID, user domain.UserID, conn core.SignalConnection) (*core.Session, error) {
	return o.Registry.Register(sid, user, conn)
}

// OnDisconnect forgets the session and all its memberships. Safe to call twice.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	if sess, ok := o.Registry.Unregister(sid); ok {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("user", string(sess.UserID)).Msg("session disconnected")
	}
}

// KickBySID drops the session and closes its transport.
func (o *Orchestrator) KickBySID(sid core.SessionID) {
	sess, ok := o.Registry.Unregister(sid)
	if !ok {
		return
	}
	if sess.Conn != nil {
		sess.Conn.Close()
	}
	log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("session kicked")
}

// publish fans a frame out to the room and applies the backpressure policy.
func (o *Orchestrator) publish(room domain.RoomID, frame core.Frame) app.PublishResult {
	res := o.Broadcaster.Broadcast(room, frame)
	o.Metrics.DroppedFrames(len(res.Dropped) + res.Closed)
	if o.Policy == nil {
		return res
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			o.KickBySID(slow.ID)
		case app.DropFrame, app.NoAction:
			log.Debug().Str("module", "orch").Str("sid", string(slow.ID)).Str("room", string(room)).Msg("frame dropped for slow member")
		}
	}
	return res
}
