// internal/socket/client.go
package socket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
)

// WebSocket connection constants
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Committee images travel as base64 inside create/edit payloads.
	maxMessageSize int64 = 4 << 20

	routeTimeout = 30 * time.Second
)

// ClientMessage is the client frame.
type ClientMessage struct {
	Action  string          `json:"action"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewClient creates a new WebSocket client. userID may be empty.
func NewClient(hub *Hub, userID, token string, conn *websocket.Conn) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Token:    token,
		Conn:     conn,
		Hub:      hub,
		Send:     make(chan []byte, 256),
		Rooms:    make(map[string]bool),
		lastPing: time.Now(),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.lastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warnf("[Client] WebSocket error for user %s: %v", c.UserID, err)
			}
			break
		}
		c.handleMessage(message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
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
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One frame per message; clients parse each frame as a single JSON document.
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

// handleMessage processes incoming messages from the client
func (c *Client) handleMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warnf("[Client] Error parsing message from client %s: %v", c.ID, err)
		c.enqueue(MessageError, map[string]string{"error": "Please check data type."})
		return
	}

	switch msg.Action {
	case "join":
		if msg.Room == "" {
			return
		}
		if userID, _ := c.identity(); strings.HasPrefix(msg.Room, "user:") && msg.Room != UserRoom(userID) {
			c.enqueue(MessageError, map[string]string{"error": "Cannot join another user's room."})
			return
		}
		c.Hub.JoinRoom(c, msg.Room)
		c.sendAck("joined", msg.Room)

	case "leave":
		if msg.Room != "" {
			c.Hub.LeaveRoom(c, msg.Room)
			c.sendAck("left", msg.Room)
		}

	case "ping":
		c.lastPing = time.Now()
		c.enqueue(MessagePong, map[string]interface{}{"time": time.Now().Unix()})

	case "pong":
		c.lastPing = time.Now()

	case "":
		logger.Debugf("[Client] Empty action from client %s", c.ID)

	default:
		c.route(msg)
	}
}

// route runs a domain action: replies first, then the publish step.
func (c *Client) route(msg ClientMessage) {
	if c.Hub.router == nil {
		logger.Warnf("[Client] No router for action %s", msg.Action)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), routeTimeout)
	defer cancel()

	_, token := c.identity()
	resp := c.Hub.router.Route(ctx, Request{Event: msg.Action, Payload: msg.Payload, Token: token})
	if resp.UserID != "" {
		c.Hub.Identify(c, resp.UserID, resp.Token)
	}
	for _, r := range resp.Replies {
		c.enqueue(r.Event, r.Payload)
	}
	if resp.Publish != nil {
		resp.Publish(ctx)
	}
}

func (c *Client) enqueue(msgType string, payload interface{}) {
	data, ok := encode(msgType, payload)
	if !ok {
		return
	}
	defer func() {
		// Send is closed once the hub dropped the client.
		_ = recover()
	}()
	select {
	case c.Send <- data:
	default:
		logger.Warnf("[Client] Send buffer full for client %s, dropping %s", c.ID, msgType)
	}
}

func (c *Client) sendAck(action, room string) {
	c.enqueue(MessageAck, map[string]interface{}{
		"action": action,
		"room":   room,
	})
}
