// internal/socket/handler.go
package socket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
)

// TokenResolver maps a bearer token to a user ID.
type TokenResolver func(token string) (string, error)

// Handler handles WebSocket connections
type Handler struct {
	Hub      *Hub
	resolve  TokenResolver
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins list
// accepts any origin.
func NewHandler(hub *Hub, resolve TokenResolver, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		Hub:     hub,
		resolve: resolve,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// bearerToken reads the token from the query (browsers cannot set headers on
// WebSocket requests) or from the Authorization header.
func bearerToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// HandleWebSocket upgrades the request. A connection without a token stays
// anonymous until an auth event or a payload token identifies it.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)

	var userID string
	if tokenString != "" {
		id, err := h.resolve(tokenString)
		if err != nil {
			logger.Warnf("[WebSocket] Token rejected: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		userID = id
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[WebSocket] Upgrade error: %v", err)
		return
	}

	client := NewClient(h.Hub, userID, tokenString, conn)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	logger.Infof("[WebSocket] Client connected: id=%s user=%s", client.ID, userID)

	go client.WritePump()
	go client.ReadPump()
}
