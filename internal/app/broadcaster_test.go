package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Sketch/internal/core"
)

func TestBroadcast_ReachesExactlyRoomMembers(t *testing.T) {
	r := NewRegistry()
	conns := map[core.SessionID]*fakeConn{"c1": {}, "c2": {}, "c3": {}, "c4": {}}
	for sid, c := range conns {
		_, err := r.Register(sid, "u", c)
		require.NoError(t, err)
	}
	require.NoError(t, r.Join("c1", "7"))
	require.NoError(t, r.Join("c2", "7"))
	require.NoError(t, r.Join("c3", "9"))
	require.NoError(t, r.Join("c4", "7"))
	require.NoError(t, r.Leave("c4", "7"))

	res := NewBroadcaster(r).Broadcast("7", core.Frame("hello"))

	assert.Equal(t, 2, res.SendTo)
	assert.Empty(t, res.Dropped)
	assert.Equal(t, []core.Frame{core.Frame("hello")}, conns["c1"].Frames())
	assert.Equal(t, []core.Frame{core.Frame("hello")}, conns["c2"].Frames())
	assert.Empty(t, conns["c3"].Frames())
	assert.Empty(t, conns["c4"].Frames())
}

func TestBroadcast_SlowAndClosedPeersDoNotAbort(t *testing.T) {
	r := NewRegistry()
	slow := &fakeConn{full: true}
	gone := &fakeConn{closed: true}
	ok1, ok2 := &fakeConn{}, &fakeConn{}
	for sid, c := range map[core.SessionID]*fakeConn{"slow": slow, "gone": gone, "ok1": ok1, "ok2": ok2} {
		_, err := r.Register(sid, "u", c)
		require.NoError(t, err)
		require.NoError(t, r.Join(sid, "room"))
	}

	res := NewBroadcaster(r).Broadcast("room", core.Frame("x"))

	assert.Equal(t, 2, res.SendTo)
	assert.Equal(t, 1, res.Closed)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, core.SessionID("slow"), res.Dropped[0].ID)
	assert.Len(t, ok1.Frames(), 1)
	assert.Len(t, ok2.Frames(), 1)
}

func TestBroadcast_EmptyRoom(t *testing.T) {
	res := NewBroadcaster(NewRegistry()).Broadcast("nobody", core.Frame("x"))
	assert.Zero(t, res.SendTo)
	assert.Empty(t, res.Dropped)
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, DropFrame, p.OnBackPressure("r", nil))

	p, err = PolicyByName("kick")
	require.NoError(t, err)
	assert.Equal(t, KickMember, p.OnBackPressure("r", nil))

	_, err = PolicyByName("retry")
	assert.Error(t, err)
}
