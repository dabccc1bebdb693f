package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub(ChannelKey)

	a := NewClient(nil)
	b := NewClient(nil)

	hub.Join("room-1", a)
	hub.Join("room-1", b)
	hub.Join("room-2", a)

	assert.Equal(t, 2, hub.RoomSize("room-1"))
	assert.Equal(t, 1, hub.RoomSize("room-2"))

	hub.Leave("room-1", a)
	assert.Equal(t, 1, hub.RoomSize("room-1"))

	// Leaving a room the client is not in is a no-op.
	hub.Leave("room-1", a)
	assert.Equal(t, 1, hub.RoomSize("room-1"))

	hub.LeaveAll(b)
	assert.Equal(t, 0, hub.RoomSize("room-1"))
	assert.Equal(t, 1, hub.RoomSize("room-2"))
}

func TestHubEmit(t *testing.T) {
	hub := NewHub(ChannelWallet)

	a := NewClient(nil)
	b := NewClient(nil)
	outsider := NewClient(nil)

	hub.Join("room-1", a)
	hub.Join("room-1", b)
	hub.Join("room-2", outsider)

	delivered := hub.Emit("room-1", Event{Event: "txid", Data: "deadbeef"})
	assert.Equal(t, 2, delivered)

	for _, c := range []*Client{a, b} {
		select {
		case frame := <-c.send:
			var ev Event
			require.NoError(t, json.Unmarshal(frame, &ev))
			assert.Equal(t, "txid", ev.Event)
			assert.Equal(t, "deadbeef", ev.Data)
		default:
			t.Fatal("expected a queued frame")
		}
	}

	select {
	case <-outsider.send:
		t.Fatal("outsider must not receive room-1 events")
	default:
	}
}

func TestHubEmitSkipsSlowClients(t *testing.T) {
	hub := NewHub(ChannelKey)

	slow := NewClient(nil)
	hub.Join("room-1", slow)

	// Fill the send buffer.
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, slow.trySend([]byte("x")))
	}

	delivered := hub.Emit("room-1", Event{Event: "tx", Data: "payload"})
	assert.Equal(t, 0, delivered)
}

func TestHubEmitToEmptyRoom(t *testing.T) {
	hub := NewHub(ChannelKey)

	assert.Equal(t, 0, hub.Emit("nobody-home", Event{Event: "tx"}))
}

func TestClosedClientRefusesFrames(t *testing.T) {
	c := NewClient(nil)
	c.Close()

	assert.False(t, c.trySend([]byte("x")))
	assert.False(t, c.SendEvent(Event{Event: "tx"}))
}
