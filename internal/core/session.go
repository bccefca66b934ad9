package core

import (
	"time"

	"github.com/dkeye/Sketch/internal/domain"
)

// SessionID is the server-side handle of one live connection.
type SessionID string

// Session binds an authenticated identity to its transport endpoint.
// Room membership is owned by the registry, not by the session.
type Session struct {
	ID          SessionID
	UserID      domain.UserID
	Conn        SignalConnection
	ConnectedAt time.Time
}

func NewSession(id SessionID, user domain.UserID, conn SignalConnection) *Session {
	return &Session{
		ID:          id,
		UserID:      user,
		Conn:        conn,
		ConnectedAt: time.Now(),
	}
}

// Send is TrySend with a nil-connection guard, for sessions whose adapter already went away.
func (s *Session) Send(f Frame) error {
	if s.Conn == nil {
		return ErrConnClosed
	}
	return s.Conn.TrySend(f)
}
