package orch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Sketch/internal/domain"
	"github.com/dkeye/Sketch/internal/store"
	"github.com/rs/zerolog/log"
)

const (
	StatsWindow = 500
	StatsRecent = 20
)

// History returns a room's full log, oldest first. Unknown rooms are empty.
func (o *Orchestrator) History(ctx context.Context, room domain.RoomID) ([]store.StoredEvent, error) {
	if err := room.Validate(); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return o.Store.ListByRoom(ctx, room)
}

type RecentCompletion struct {
	ID            store.EventID `json:"id"`
	RoomID        domain.RoomID `json:"roomId"`
	DetectedLabel string        `json:"detectedLabel"`
	Confidence    float64       `json:"confidence"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type PatternStats struct {
	Total   int                `json:"total"`
	ByLabel map[string]int     `json:"byLabel"`
	Recent  []RecentCompletion `json:"recent"`
}

// PatternStats summarizes the last StatsWindow completion events.
func (o *Orchestrator) PatternStats(ctx context.Context) (PatternStats, error) {
	events, err := o.Store.ListByType(ctx, domain.ShapeCompletion, StatsWindow)
	if err != nil {
		return PatternStats{}, err
	}
	return buildPatternStats(events), nil
}

// buildPatternStats expects events newest first.
func buildPatternStats(events []store.StoredEvent) PatternStats {
	stats := PatternStats{ByLabel: make(map[string]int), Recent: []RecentCompletion{}}
	for _, e := range events {
		var data domain.CompletionData
		if err := json.Unmarshal(e.ShapeData, &data); err != nil || data.DetectedLabel == "" {
			log.Warn().Str("module", "orch.stats").Str("event", string(e.ID)).Msg("skipping unreadable completion")
			continue
		}
		stats.Total++
		stats.ByLabel[data.DetectedLabel]++
		if len(stats.Recent) < StatsRecent {
			stats.Recent = append(stats.Recent, RecentCompletion{
				ID:            e.ID,
				RoomID:        e.RoomID,
				DetectedLabel: data.DetectedLabel,
				Confidence:    data.Confidence,
				CreatedAt:     e.CreatedAt,
			})
		}
	}
	return stats
}
