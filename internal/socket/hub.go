// internal/socket/hub.go
package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/metrics"
)

// System message types. Domain replies use the event name as their type.
const (
	MessagePing  = "ping"
	MessagePong  = "pong"
	MessageAck   = "ack"
	MessageError = "error"
)

// Room names.
const (
	CommitteesRoom = "committees"
)

func UserRoom(userID string) string           { return "user:" + userID }
func CommitteeRoom(committeeID string) string { return "committee:" + committeeID }

// Message is the server frame.
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client represents a connected WebSocket client
type Client struct {
	ID     string
	UserID string // empty until identified
	Token  string // presented at handshake or after auth
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan []byte
	Rooms  map[string]bool
	mu     sync.Mutex

	lastPing time.Time
}

func (c *Client) identity() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.UserID, c.Token
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients map[*Client]bool

	// Clients indexed by user ID for direct messaging
	userClients map[string]map[*Client]bool

	// Clients indexed by room for broadcasting
	roomClients map[string]map[*Client]bool

	register      chan *Client
	unregister    chan *Client
	roomBroadcast chan *RoomMessage
	directMessage chan *DirectMessage

	router Router
	done   chan struct{}
	mu     sync.RWMutex
}

// RoomMessage represents a message to be sent to a specific room
type RoomMessage struct {
	Room    string
	Message []byte
	Exclude string // User ID to exclude from broadcast
}

// DirectMessage represents a message to be sent to a specific user
type DirectMessage struct {
	UserID  string
	Message []byte
}

// NewHub creates a new Hub. router answers every action other than join, leave and ping.
func NewHub(router Router) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		userClients:   make(map[string]map[*Client]bool),
		roomClients:   make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		roomBroadcast: make(chan *RoomMessage, 256),
		directMessage: make(chan *DirectMessage, 256),
		router:        router,
		done:          make(chan struct{}),
	}
}

// SetRouter replaces the router. Call before Run.
func (h *Hub) SetRouter(router Router) {
	h.router = router
}

// Run starts the hub's main loop and returns when ctx is cancelled. Remaining
// clients are closed on the way out.
func (h *Hub) Run(ctx context.Context) {
	logger.Info("[Hub] WebSocket hub started")

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case rm := <-h.roomBroadcast:
			h.broadcastToRoom(rm)

		case dm := <-h.directMessage:
			h.sendToUser(dm)

		case <-pingTicker.C:
			h.pingClients()
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.done)
	for client := range h.clients {
		close(client.Send)
		delete(h.clients, client)
	}
	h.userClients = make(map[string]map[*Client]bool)
	h.roomClients = make(map[string]map[*Client]bool)
	metrics.WebsocketClients.Set(0)
	logger.Info("[Hub] WebSocket hub stopped")
}

// Register hands a client to the running hub.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if client.UserID != "" {
		h.indexUser(client, client.UserID)
	}
	metrics.WebsocketClients.Set(float64(len(h.clients)))

	logger.Infof("[Hub] Client registered: user=%s, id=%s, total_clients=%d",
		client.UserID, client.ID, len(h.clients))
}

// indexUser must be called with h.mu held.
func (h *Hub) indexUser(client *Client, userID string) {
	if h.userClients[userID] == nil {
		h.userClients[userID] = make(map[*Client]bool)
	}
	h.userClients[userID][client] = true
	h.joinLocked(client, UserRoom(userID))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	if clients, ok := h.userClients[client.UserID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userClients, client.UserID)
		}
	}

	client.mu.Lock()
	for room := range client.Rooms {
		if clients, ok := h.roomClients[room]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.roomClients, room)
			}
		}
	}
	client.mu.Unlock()

	close(client.Send)
	metrics.WebsocketClients.Set(float64(len(h.clients)))
	logger.Infof("[Hub] Client disconnected: user=%s, id=%s, total_clients=%d",
		client.UserID, client.ID, len(h.clients))
}

// deliver must be called with h.mu read-locked. Slow clients are dropped.
func (h *Hub) deliver(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		go h.Unregister(client)
		return false
	}
}

func (h *Hub) broadcastToRoom(rm *RoomMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.roomClients[rm.Room]
	if !ok {
		logger.Debugf("[Hub] Room not found: %s", rm.Room)
		return
	}

	sentCount := 0
	for client := range clients {
		if rm.Exclude != "" && client.UserID == rm.Exclude {
			continue
		}
		if h.deliver(client, rm.Message) {
			sentCount++
		}
	}
	logger.Debugf("[Hub] Broadcast to room %s: sent to %d clients", rm.Room, sentCount)
}

func (h *Hub) sendToUser(dm *DirectMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userClients[dm.UserID]
	if !ok {
		logger.Debugf("[Hub] User not connected: %s", dm.UserID)
		return
	}
	for client := range clients {
		h.deliver(client, dm.Message)
	}
}

func (h *Hub) pingClients() {
	data, _ := json.Marshal(Message{Type: MessagePing, Timestamp: time.Now()})

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		h.deliver(client, data)
	}
}

// ============================================
// Public Methods for Room Management
// ============================================

// JoinRoom adds a client to a room
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinLocked(client, room)
	logger.Debugf("[Hub] Client joined room: user=%s, room=%s", client.UserID, room)
}

func (h *Hub) joinLocked(client *Client, room string) {
	client.mu.Lock()
	client.Rooms[room] = true
	client.mu.Unlock()

	if h.roomClients[room] == nil {
		h.roomClients[room] = make(map[*Client]bool)
	}
	h.roomClients[room][client] = true
}

// LeaveRoom removes a client from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	delete(client.Rooms, room)
	client.mu.Unlock()

	if clients, ok := h.roomClients[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.roomClients, room)
		}
	}
	logger.Debugf("[Hub] Client left room: user=%s, room=%s", client.UserID, room)
}

// Identify binds a client to userID and joins it to the user's room. A client
// that was identified as someone else leaves that user's room first.
func (h *Hub) Identify(client *Client, userID, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.Lock()
	previous := client.UserID
	client.UserID = userID
	if token != "" {
		client.Token = token
	}
	client.mu.Unlock()

	if previous == userID {
		if userID != "" {
			h.joinLocked(client, UserRoom(userID))
		}
		return
	}
	if previous != "" {
		if clients, ok := h.userClients[previous]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.userClients, previous)
			}
		}
		client.mu.Lock()
		delete(client.Rooms, UserRoom(previous))
		client.mu.Unlock()
		if clients, ok := h.roomClients[UserRoom(previous)]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.roomClients, UserRoom(previous))
			}
		}
	}
	if _, registered := h.clients[client]; registered && userID != "" {
		h.indexUser(client, userID)
	}
}

// ============================================
// Public Methods for Sending Messages
// ============================================

func encode(msgType string, payload interface{}) ([]byte, bool) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Timestamp: time.Now()})
	if err != nil {
		logger.Errorf("[Hub] Error marshaling %s message: %v", msgType, err)
		return nil, false
	}
	return data, true
}

// SendToUser sends a message to every connection of a user.
func (h *Hub) SendToUser(userID, msgType string, payload interface{}) {
	data, ok := encode(msgType, payload)
	if !ok {
		return
	}
	select {
	case h.directMessage <- &DirectMessage{UserID: userID, Message: data}:
	case <-h.done:
	}
}

// SendToRoom broadcasts a message to all clients in a room
func (h *Hub) SendToRoom(room, msgType string, payload interface{}, excludeUserID string) {
	data, ok := encode(msgType, payload)
	if !ok {
		return
	}
	select {
	case h.roomBroadcast <- &RoomMessage{Room: room, Message: data, Exclude: excludeUserID}:
	case <-h.done:
	}
}

// ============================================
// Query Methods
// ============================================

// IsUserOnline checks if a user is currently connected
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.userClients[userID]
	return ok
}

// GetRoomClients returns the number of clients in a room
func (h *Hub) GetRoomClients(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.roomClients[room]; ok {
		return len(clients)
	}
	return 0
}

// GetConnectedClientsCount returns total connected clients
func (h *Hub) GetConnectedClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
