package websocket

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// inbound frames are heartbeats only
	maxMessageSize = 512
	sendBuffer     = 256
)

// Client is one websocket connection of a user. A user may hold several
// (phone and laptop); the hub fans every push out to all of them.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID uuid.UUID
	Send   chan []byte
}

var pongFrame, _ = json.Marshal(Envelope{Type: "pong"})

// Serve registers conn for userID and blocks until the connection closes.
func (h *Hub) Serve(conn *websocket.Conn, userID uuid.UUID) {
	client := &Client{Hub: h, Conn: conn, UserID: userID, Send: make(chan []byte, sendBuffer)}
	h.register <- client

	go client.writePump()
	client.readPump()
}

// readPump keeps the read deadline alive. Browsers cannot send ping control
// frames, so a text frame {"type":"ping"} is answered with {"type":"pong"};
// anything else a client sends is ignored.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WS_CLIENT", "Unexpected close", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))

		if kind == websocket.TextMessage && isHeartbeat(raw) {
			select {
			case c.Send <- pongFrame:
			default:
			}
		}
	}
}

func isHeartbeat(raw []byte) bool {
	var env Envelope
	return json.Unmarshal(raw, &env) == nil && env.Type == "ping"
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// removed by the hub
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
