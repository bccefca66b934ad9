package app

import (
	"errors"
	"sort"
	"sync"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyRegistered = errors.New("session already registered")
	ErrUnknownSession    = errors.New("unknown session")
)

type sessionEntry struct {
	Session *core.Session
	Rooms   map[domain.RoomID]struct{}
}

// Registry exclusively owns live sessions and the session<->room membership graph.
// Both indexes are only ever changed together, under mu.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	rooms    map[domain.RoomID]map[core.SessionID]*core.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
		rooms:    make(map[domain.RoomID]map[core.SessionID]*core.Session),
	}
}

func (r *Registry) Register(sid core.SessionID, user domain.UserID, conn core.SignalConnection) (*core.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; ok {
		return nil, ErrAlreadyRegistered
	}
	sess := core.NewSession(sid, user, conn)
	r.sessions[sid] = &sessionEntry{Session: sess, Rooms: make(map[domain.RoomID]struct{})}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(user)).Msg("registered session")
	return sess, nil
}

func (r *Registry) GetSession(sid core.SessionID) (*core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// Join adds sid to room. Joining a room twice is a no-op.
func (r *Registry) Join(sid core.SessionID, room domain.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return ErrUnknownSession
	}
	if _, ok := e.Rooms[room]; ok {
		return nil
	}
	e.Rooms[room] = struct{}{}
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[core.SessionID]*core.Session)
		r.rooms[room] = members
	}
	members[sid] = e.Session
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("joined room")
	return nil
}

// Leave removes sid from room. Leaving a room the session is not in is a no-op.
func (r *Registry) Leave(sid core.SessionID, room domain.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return ErrUnknownSession
	}
	if _, ok := e.Rooms[room]; !ok {
		return nil
	}
	delete(e.Rooms, room)
	r.removeMember(room, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Msg("left room")
	return nil
}

// Unregister drops the session and every membership it holds. Idempotent.
func (r *Registry) Unregister(sid core.SessionID) (*core.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	for room := range e.Rooms {
		r.removeMember(room, sid)
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Int("rooms", len(e.Rooms)).Msg("unregistered session")
	return e.Session, true
}

// removeMember expects mu to be held.
func (r *Registry) removeMember(room domain.RoomID, sid core.SessionID) {
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, sid)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// MembersOf returns a snapshot; later joins and leaves do not affect it.
func (r *Registry) MembersOf(room domain.RoomID) []*core.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make([]*core.Session, 0, len(members))
	for _, s := range members {
		out = append(out, s)
	}
	return out
}

func (r *Registry) IsMember(sid core.SessionID, room domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	_, ok = e.Rooms[room]
	return ok
}

func (r *Registry) RoomsOf(sid core.SessionID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(e.Rooms))
	for room := range e.Rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RoomCount counts rooms with at least one member.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Rooms lists occupied rooms ordered by id.
func (r *Registry) Rooms() []domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Room, 0, len(r.rooms))
	for id, members := range r.rooms {
		out = append(out, domain.Room{ID: id, MemberCount: len(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
