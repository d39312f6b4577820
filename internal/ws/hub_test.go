package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *Client) []Event {
	var events []Event
	for {
		select {
		case e := <-c.send:
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestHubRegisterTracksConnections(t *testing.T) {
	hub := NewHub()
	a1 := NewClient(nil, "1", "alice")
	a2 := NewClient(nil, "1", "alice-phone")

	hub.Register(a1)
	hub.Register(a2)
	assert.True(t, hub.IsConnected("1"))
	assert.False(t, hub.IsConnected("2"))

	hub.Unregister(a1)
	assert.True(t, hub.IsConnected("1"), "second connection keeps the account online")

	hub.Unregister(a2)
	assert.False(t, hub.IsConnected("1"))
}

func TestHubBroadcastToAccountsReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	a1 := NewClient(nil, "1", "alice")
	a2 := NewClient(nil, "1", "alice-phone")
	b := NewClient(nil, "2", "bob")
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)

	hub.BroadcastToAccounts([]string{"1"}, Event{Type: EventNotification})

	assert.Len(t, drain(a1), 1)
	assert.Len(t, drain(a2), 1)
	assert.Empty(t, drain(b))
}

func TestHubRoomBroadcast(t *testing.T) {
	hub := NewHub()
	a := NewClient(nil, "1", "alice")
	b := NewClient(nil, "2", "bob")
	c := NewClient(nil, "3", "carol")
	hub.Register(a)
	hub.Register(b)
	hub.Register(c)

	hub.JoinRoom("combat-x", a)
	hub.JoinRoom("combat-x", b)
	require.Equal(t, 2, hub.RoomSize("combat-x"))

	hub.BroadcastToRoom("combat-x", Event{Type: EventCombatMessage})
	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
	assert.Empty(t, drain(c), "non-members never receive room events")

	hub.BroadcastToRoomExcept("combat-x", a, Event{Type: EventUserTyping})
	assert.Empty(t, drain(a), "typing events skip their originator")
	assert.Len(t, drain(b), 1)
}

func TestHubLeaveRoom(t *testing.T) {
	hub := NewHub()
	a := NewClient(nil, "1", "alice")
	hub.Register(a)

	hub.JoinRoom("combat-x", a)
	hub.LeaveRoom("combat-x", a)
	assert.Equal(t, 0, hub.RoomSize("combat-x"))

	hub.BroadcastToRoom("combat-x", Event{Type: EventCombatMessage})
	assert.Empty(t, drain(a))
}

func TestHubUnregisterRemovesFromRooms(t *testing.T) {
	hub := NewHub()
	a := NewClient(nil, "1", "alice")
	b := NewClient(nil, "2", "bob")
	hub.Register(a)
	hub.Register(b)
	hub.JoinRoom("combat-x", a)
	hub.JoinRoom("combat-x", b)

	hub.Unregister(a)
	assert.Equal(t, 1, hub.RoomSize("combat-x"))

	hub.BroadcastToRoom("combat-x", Event{Type: EventCombatMessage})
	assert.Len(t, drain(b), 1)
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	a := NewClient(nil, "1", "alice")
	hub.Register(a)
	hub.JoinRoom("combat-x", a)

	for i := 0; i < sendBuffer+10; i++ {
		hub.BroadcastToRoom("combat-x", Event{Type: EventCombatMessage})
	}

	assert.Len(t, drain(a), sendBuffer, "overflow events are dropped, not queued unboundedly")
}
