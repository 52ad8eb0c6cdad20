package realtime

import (
	"errors"

	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

func (r *Router) createAction(c *call) {
	var p struct {
		Charge      *number `json:"charge"`
		AssignedTo  string  `json:"assigned_to"`
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if !c.bind(&p) {
		return
	}
	_, evts, err := c.svc().Action.Create(c.ctx, c.user(), service.ActionInput{
		ChargeID:    p.Charge.value(),
		AssignedTo:  p.AssignedTo,
		Title:       p.Title,
		Description: p.Description,
	})
	switch {
	case err == nil:
		c.reply(ActionAddSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNotFound):
		c.reply(ActionUsrChargeDontExist)
	case errors.Is(err, service.ErrForbidden):
		c.reply(ActionUsrNotAuth)
	default:
		c.unexpected(err, errInput...)
		c.reply(ActionAddError)
	}
}

func (r *Router) getActions(c *call) {
	var p chargeRef
	if !c.bind(&p) {
		return
	}
	actions, err := c.svc().Action.ListForCharge(c.ctx, c.user(), p.Charge.value())
	switch {
	case err == nil:
		c.reply(models.NewActionList(actions))
	case errors.Is(err, service.ErrForbidden):
		c.reply(ActionUsrNotAuth)
	default:
		c.unexpected(err, errCaller...)
		c.reply(ActionChargeDoesntExist)
	}
}

func (r *Router) getAction(c *call) {
	var p struct {
		Action *number `json:"action"`
	}
	if !c.bind(&p) {
		return
	}
	action, err := c.svc().Action.Get(c.ctx, c.user(), p.Action.value())
	switch {
	case err == nil:
		c.reply(models.NewActionResponse(action))
	case errors.Is(err, service.ErrForbidden):
		c.reply(ActionUsrNotAuth)
	default:
		c.unexpected(err, errCaller...)
		c.reply(ActionDoesntExist)
	}
}

func (r *Router) editAction(c *call) {
	var p struct {
		Action      *number `json:"action"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *number `json:"status"`
		AssignedTo  *string `json:"assigned_to"`
	}
	if !c.bind(&p) {
		return
	}
	_, evts, err := c.svc().Action.Edit(c.ctx, c.user(), p.Action.value(), service.ActionEdit{
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status.intPtr(),
		AssignedTo:  p.AssignedTo,
	})
	switch {
	case err == nil:
		c.reply(ActionEditSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrActionNotFound):
		c.reply(ActionDoesntExist)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrForbidden):
		c.reply(ActionUsrNotAuth)
	default:
		c.unexpected(err, errInput...)
		c.reply(ActionEditError)
		c.outcome = "error"
	}
}
