package socket

import (
	"context"
	"encoding/json"
)

// Request is one client action that is not a hub built-in.
type Request struct {
	Event   string
	Payload json.RawMessage
	// Token is the connection's token; a token inside the payload takes precedence.
	Token string
}

// Reply is one frame sent back to the caller.
type Reply struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Response is what a Router produced for a Request.
type Response struct {
	Replies []Reply
	// UserID and Token are set when the request established who the caller is.
	UserID string
	Token  string
	// Publish runs after the replies were handed to the caller.
	Publish func(ctx context.Context)
}

// Router answers domain actions.
type Router interface {
	Route(ctx context.Context, req Request) Response
}

type RouterFunc func(ctx context.Context, req Request) Response

func (f RouterFunc) Route(ctx context.Context, req Request) Response {
	return f(ctx, req)
}
