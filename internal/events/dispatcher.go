package events

import (
	"context"
	"fmt"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
)

// Handler reacts to committed events. Handlers ignore events they do not know.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

// Dispatcher fans events out to every registered handler in order.
// A failing handler is logged and does not stop the others.
type Dispatcher struct {
	handlers []Handler
}

func NewDispatcher(handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

func (d *Dispatcher) Register(h Handler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch delivers evts and returns how many handler calls failed.
func (d *Dispatcher) Dispatch(ctx context.Context, evts []Event) int {
	failed := 0
	for _, e := range evts {
		for _, h := range d.handlers {
			if err := safeHandle(ctx, h, e); err != nil {
				failed++
				logger.Errorw("[Events] handler failed", "event", e.Name(), "error", err)
			}
		}
	}
	return failed
}

func safeHandle(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Handle(ctx, e)
}
