package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
	"github.com/Marga-Ghale/charge-tracker/internal/socket"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Events       *EventHandler
	Notification *NotificationHandler
}

// NewHandlers creates all handlers. The router answers POST /api/events/:event
// with the same code path as the socket.
func NewHandlers(services *service.Services, router socket.Router, dispatcher *events.Dispatcher) *Handlers {
	return &Handlers{
		Auth:   &AuthHandler{authService: services.Auth},
		User:   &UserHandler{userService: services.User},
		Events: &EventHandler{router: router},
		Notification: &NotificationHandler{
			notificationService: services.Notification,
			dispatcher:          dispatcher,
		},
	}
}

// publish hands events to the dispatcher once the response is written. The
// request context is detached so a client hanging up does not cancel delivery.
func publish(c *gin.Context, dispatcher *events.Dispatcher, evts []events.Event) {
	if dispatcher == nil || len(evts) == 0 {
		return
	}
	dispatcher.Dispatch(context.WithoutCancel(c.Request.Context()), evts)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
