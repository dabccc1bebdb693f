package main

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type joinPayload struct {
	WkIdentity    string `json:"wkIdentity"`
	Signature     string `json:"signature,omitempty"`
	Message       string `json:"message,omitempty"`
	PublicKey     string `json:"publicKey,omitempty"`
	WitnessScript string `json:"witnessScript,omitempty"`
}

type eventFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type relayClient struct {
	conn *websocket.Conn
}

func newRelayClient(wsURL, channel string) (*relayClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s/v1/socket/%s", wsURL, channel), nil)
	if err != nil {
		return nil, err
	}

	return &relayClient{conn: conn}, nil
}

func (c *relayClient) join(payload joinPayload) error {
	return c.conn.WriteJSON(map[string]interface{}{
		"event": "join",
		"data":  payload,
	})
}

// listen reads events until the connection closes.
func (c *relayClient) listen(handle func(event string, data []byte)) {
	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var ev eventFrame
		if err := json.Unmarshal(frame, &ev); err != nil {
			continue
		}

		handle(ev.Event, ev.Data)
	}
}

func (c *relayClient) close() {
	_ = c.conn.Close()
}
