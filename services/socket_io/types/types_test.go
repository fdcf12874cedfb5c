package socketio_types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestConnectionSessionAllow(t *testing.T) {
	unlimited := NewConnectionSession("a", "", "", false, nil)
	for i := 0; i < 100; i++ {
		assert.True(t, unlimited.Allow())
	}

	limited := NewConnectionSession("b", "", "", false, rate.NewLimiter(0, 3))
	assert.True(t, limited.Allow())
	assert.True(t, limited.Allow())
	assert.True(t, limited.Allow())
	assert.False(t, limited.Allow())
}

func TestResolveIdentity(t *testing.T) {
	assert.Equal(t, "", NewConnectionSession("a", "", "", false, nil).ResolveIdentity("claimed"))
	assert.Equal(t, "claimed", NewConnectionSession("a", "", "", true, nil).ResolveIdentity("claimed"))
	assert.Equal(t, "token", NewConnectionSession("a", "token", "", true, nil).ResolveIdentity("claimed"))
	assert.Equal(t, "token", NewConnectionSession("a", "token", "", false, nil).ResolveIdentity(""))
}

func TestUnknownConnectionsAreIgnored(t *testing.T) {
	s := NewSocketServer()
	assert.Zero(t, s.ConnectionCount())

	assert.NotPanics(t, func() {
		s.Join("ghost", "ROOM")
		s.SendTo("ghost", "room_update", map[string]string{"roomCode": "ROOM"})
		s.RemoveConnection("ghost")
	})
	_, ok := s.GetConnection("ghost")
	assert.False(t, ok)
}
