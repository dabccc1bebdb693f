package relay

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Channel names the two independent socket surfaces.
type Channel string

const (
	ChannelKey    Channel = "key"
	ChannelWallet Channel = "wallet"
)

// Hub tracks room membership for one channel. Rooms are named by wkIdentity;
// operations on different identities never contend beyond the map lock.
type Hub struct {
	channel Channel

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub(channel Channel) *Hub {
	return &Hub{
		channel: channel,
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Channel returns the hub's channel name.
func (h *Hub) Channel() Channel {
	return h.channel
}

// Join adds the client to the room, creating it on first use.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rememberRoom(room)
}

// Leave removes the client from the room, dropping the room when empty.
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(room, c)
	c.forgetRoom(room)
}

// LeaveAll removes the client from every room it joined.
func (h *Hub) LeaveAll(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range c.joinedRooms() {
		h.leaveLocked(room, c)
		c.forgetRoom(room)
	}
}

func (h *Hub) leaveLocked(room string, c *Client) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}

	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// RoomSize returns the number of connections in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

// Emit sends an event to every member of a room, fire and forget: a member
// whose send buffer is full is skipped, never waited on. Returns the number
// of members the event was queued for.
func (h *Hub) Emit(room string, ev Event) int {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", ev.Event).Msg("Failed to marshal socket event")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.rooms[room] {
		if c.trySend(frame) {
			delivered++
		}
	}

	return delivered
}
