package relay

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 45 * time.Second
	maxMessageSize = 1 << 20
)

// inboundMessage is a client frame before dispatch.
type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client is one socket connection. The conn may be nil for in-process test
// clients; delivery then only fills the send buffer.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte

	mu    sync.Mutex
	rooms map[string]struct{}

	// writeMu serializes wire writes between the write pump and SendEventNow.
	writeMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// NewClient wraps a websocket connection. conn may be nil in tests.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		rooms:  make(map[string]struct{}),
		closed: make(chan struct{}),
	}
}

func (c *Client) rememberRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rooms[room] = struct{}{}
}

func (c *Client) forgetRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.rooms, room)
}

func (c *Client) joinedRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}

	return rooms
}

// trySend queues a frame without blocking. A full buffer drops the frame.
func (c *Client) trySend(frame []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// SendEvent marshals and queues a single event for this client.
func (c *Client) SendEvent(ev Event) bool {
	frame, err := json.Marshal(ev)
	if err != nil {
		return false
	}

	return c.trySend(frame)
}

// SendEventNow writes the event straight to the wire so it reaches the peer
// before a following Close; the buffered path would race the disconnect.
// In-process clients without a conn fall back to the buffer.
func (c *Client) SendEventNow(ev Event) bool {
	frame, err := json.Marshal(ev)
	if err != nil {
		return false
	}

	if c.conn == nil {
		return c.trySend(frame)
	}

	select {
	case <-c.closed:
		return false
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return c.conn.WriteMessage(websocket.TextMessage, frame) == nil
}

// Close terminates the connection and unblocks the write pump. Safe to call
// more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) writeFrame(messageType int, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return c.conn.WriteMessage(messageType, frame)
}

// writePump drains the send buffer onto the wire and keeps the connection
// alive with pings.
func (c *Client) writePump(log zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			if err := c.writeFrame(websocket.TextMessage, frame); err != nil {
				log.Debug().Err(err).Str("client_id", c.ID).Msg("Socket write failed")
				return
			}
		case <-ticker.C:
			if err := c.writeFrame(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// readPump reads frames until the connection dies, dispatching each to
// handle. It returns once the connection is gone.
func (c *Client) readPump(log zerolog.Logger, handle func(msg inboundMessage)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("client_id", c.ID).Msg("Socket closed unexpectedly")
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(frame, &msg); err != nil {
			log.Debug().Err(err).Str("client_id", c.ID).Msg("Dropping malformed socket frame")
			continue
		}

		handle(msg)
	}
}
