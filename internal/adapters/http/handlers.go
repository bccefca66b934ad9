package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Sketch/internal/app/orch"
	"github.com/dkeye/Sketch/internal/domain"
)

type Handlers struct {
	Orch *orch.Orchestrator
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": h.Orch.Registry.ConnectionCount(),
		"rooms":       h.Orch.Registry.RoomCount(),
	})
}

// GET /api/rooms lists rooms that currently have members.
func (h *Handlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Orch.Registry.Rooms()})
}

// GET /api/rooms/:roomId/events returns the room log, oldest first.
func (h *Handlers) RoomHistory(c *gin.Context) {
	room := domain.RoomID(c.Param("roomId"))
	events, err := h.Orch.History(c.Request.Context(), room)
	switch {
	case errors.Is(err, domain.ErrRoomIDEmpty), errors.Is(err, domain.ErrRoomIDInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_room"})
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(room)).Msg("room history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": room, "events": events})
}

func (h *Handlers) PatternStats(c *gin.Context) {
	stats, err := h.Orch.PatternStats(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("pattern stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store_unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
