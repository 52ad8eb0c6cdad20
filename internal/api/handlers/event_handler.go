package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/charge-tracker/internal/api/middleware"
	"github.com/Marga-Ghale/charge-tracker/internal/socket"
)

const maxEventBody = 1 << 20

// EventHandler runs a socket event over plain HTTP.
type EventHandler struct {
	router socket.Router
}

// Handle answers POST /api/events/:event. The body is the event payload and
// the response is the list of replies a socket client would have received.
func (h *EventHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var payload json.RawMessage
	if len(body) > 0 {
		if !json.Valid(body) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		payload = body
	}

	token, _ := middleware.BearerToken(c)
	resp := h.router.Route(c.Request.Context(), socket.Request{
		Event:   c.Param("event"),
		Payload: payload,
		Token:   token,
	})

	replies := resp.Replies
	if replies == nil {
		replies = []socket.Reply{}
	}
	c.JSON(http.StatusOK, replies)

	if resp.Publish != nil {
		resp.Publish(context.WithoutCancel(c.Request.Context()))
	}
}
