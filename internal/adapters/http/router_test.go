package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/Sketch/internal/app"
	"github.com/dkeye/Sketch/internal/app/orch"
	"github.com/dkeye/Sketch/internal/auth"
	"github.com/dkeye/Sketch/internal/config"
	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/detect"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/dkeye/Sketch/internal/mocks"
	"github.com/dkeye/Sketch/internal/store"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func testConfig() *config.Config {
	return &config.Config{Mode: "test", Port: 8080, Secret: "cookie-secret", ReadLimit: 1 << 16, SendBuffer: 8}
}

func newOrch(s store.EventStore) *orch.Orchestrator {
	reg := app.NewRegistry()
	return &orch.Orchestrator{
		Registry:    reg,
		Rooms:       app.NewRoomManager(),
		Broadcaster: app.NewBroadcaster(reg),
		Store:       s,
		Detector:    detect.NewClassifier(detect.DefaultConfig()),
		Opts:        orch.DefaultOptions(),
	}
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_ReadEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	s := store.NewMemoryStore()
	o := newOrch(s)
	ctrl := gomock.NewController(t)
	r := SetupRouter(ctx, testConfig(), o, mocks.NewMockVerifier(ctrl))

	_, err := o.Connect("s1", "alice", nopConn{})
	require.NoError(t, err)
	require.NoError(t, o.Join("s1", "7"))

	for i, typ := range []domain.ShapeType{domain.ShapePencil, domain.ShapeLine} {
		_, err := s.Append(ctx, "7", store.Record{UserID: "alice", Type: typ, Data: json.RawMessage(`{"i":` + string(rune('0'+i)) + `}`), Timestamp: time.Unix(int64(i), 0)})
		require.NoError(t, err)
	}
	data, _ := json.Marshal(domain.CompletionData{Completion: json.RawMessage(`{"type":"line"}`), DetectedLabel: "line", Confidence: 0.9})
	_, err = s.Append(ctx, "7", store.Record{UserID: "alice", Type: domain.ShapeCompletion, Data: data, Timestamp: time.Unix(5, 0)})
	require.NoError(t, err)

	t.Run("healthz", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","connections":1,"rooms":1}`, rec.Body.String())
		assert.NotEmpty(t, rec.Result().Cookies(), "client token cookie is issued")
	})

	t.Run("rooms", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/rooms")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"rooms":[{"roomId":"7","memberCount":1}]}`, rec.Body.String())
	})

	t.Run("history", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/rooms/7/events")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			RoomID string              `json:"roomId"`
			Events []store.StoredEvent `json:"events"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "7", body.RoomID)
		require.Len(t, body.Events, 3)
		assert.Equal(t, domain.ShapePencil, body.Events[0].ShapeType)
		assert.Equal(t, domain.ShapeCompletion, body.Events[2].ShapeType)
	})

	t.Run("history of unknown room is empty", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/rooms/42/events")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"roomId":"42","events":[]}`, rec.Body.String())
	})

	t.Run("history rejects bad room ids", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/rooms/bad%20room/events")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pattern stats", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/pattern-stats")
		require.Equal(t, http.StatusOK, rec.Code)
		var stats orch.PatternStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, map[string]int{"line": 1}, stats.ByLabel)
		require.Len(t, stats.Recent, 1)
		assert.Equal(t, domain.RoomID("7"), stats.Recent[0].RoomID)
	})
}

func TestRouter_StoreErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	s := mocks.NewMockEventStore(ctrl)
	r := SetupRouter(context.Background(), testConfig(), newOrch(s), mocks.NewMockVerifier(ctrl))

	s.EXPECT().ListByRoom(gomock.Any(), domain.RoomID("7")).Return(nil, errors.New("db down"))
	s.EXPECT().ListByType(gomock.Any(), domain.ShapeCompletion, orch.StatsWindow).Return(nil, errors.New("db down"))

	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/api/rooms/7/events").Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/api/pattern-stats").Code)
}

func TestRouter_WebSocketRequiresCredential(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "").Return(domain.UserID(""), auth.ErrAuthFailure)
	o := newOrch(store.NewMemoryStore())
	r := SetupRouter(context.Background(), testConfig(), o, verifier)

	rec := do(r, http.MethodGet, "/api/ws")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, o.Registry.ConnectionCount())
}
