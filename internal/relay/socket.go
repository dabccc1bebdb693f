package relay

import (
	"encoding/json"
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Identity proof happens per join event, not per origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketHandler upgrades the request and runs the join/leave protocol for
// one channel until the connection dies. Verification failures disconnect
// after the error event was flushed.
func (s *Service) SocketHandler(channel Channel) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx).With().Str("channel", string(channel)).Logger()

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			log.Debug().Err(err).Msg("Socket upgrade failed")
			return nil
		}

		client := NewClient(conn)
		log.Debug().Str("client_id", client.ID).Msg("Socket connected")

		go client.writePump(log)

		client.readPump(log, func(msg inboundMessage) {
			var data JoinData
			if len(msg.Data) > 0 {
				if err := json.Unmarshal(msg.Data, &data); err != nil {
					log.Debug().Err(err).Str("client_id", client.ID).Msg("Dropping malformed event data")
					return
				}
			}

			switch msg.Event {
			case EventJoin:
				if err := s.HandleJoin(ctx, channel, client, data); err != nil {
					client.Close()
				}
			case EventLeave:
				s.HandleLeave(ctx, channel, client, data)
			default:
				log.Debug().Str("event", msg.Event).Str("client_id", client.ID).Msg("Ignoring unknown socket event")
			}
		})

		s.Hub(channel).LeaveAll(client)
		client.Close()
		log.Debug().Str("client_id", client.ID).Msg("Socket disconnected")

		return nil
	}
}
