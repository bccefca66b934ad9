package app

import (
	"errors"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
// Closed peers are counted but not listed: there is nothing left to apply a policy to.
type PublishResult struct {
	SendTo  int
	Closed  int
	Dropped []*core.Session
}

type Broadcaster struct {
	Registry *Registry
}

func NewBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{Registry: reg}
}

// Broadcast delivers data to the membership snapshot taken at call time.
// It never blocks on a peer and never aborts because of one.
func (b *Broadcaster) Broadcast(room domain.RoomID, data core.Frame) PublishResult {
	res := PublishResult{}
	for _, m := range b.Registry.MembersOf(room) {
		err := m.Send(data)
		switch {
		case err == nil:
			res.SendTo++
		case errors.Is(err, core.ErrBackpressure):
			res.Dropped = append(res.Dropped, m)
		default:
			res.Closed++
		}
	}
	log.Debug().Str("module", "app.broadcast").Str("room", string(room)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Int("closed", res.Closed).Msg("broadcast result")
	return res
}
