package realtime

import (
	"errors"

	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

type chargeRef struct {
	Charge *number `json:"charge"`
}

func (r *Router) createCharge(c *call) {
	var p struct {
		Committee    string   `json:"committee"`
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Priority     *number  `json:"priority"`
		Private      *bool    `json:"private"`
		PawLinks     string   `json:"paw_links"`
		Objectives   []string `json:"objectives"`
		Schedule     []string `json:"schedule"`
		Resources    []string `json:"resources"`
		Stakeholders []string `json:"stakeholders"`
	}
	if !c.bind(&p) {
		return
	}

	_, evts, err := c.svc().Charge.Create(c.ctx, c.user(), service.ChargeInput{
		CommitteeID:  p.Committee,
		Title:        p.Title,
		Description:  p.Description,
		Priority:     p.Priority.intPtr(),
		Private:      p.Private,
		PawLinks:     p.PawLinks,
		Objectives:   p.Objectives,
		Schedule:     p.Schedule,
		Resources:    p.Resources,
		Stakeholders: p.Stakeholders,
	})
	switch {
	case err == nil:
		c.reply(ChargeAddSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNotFound):
		c.reply(ChargeUsrChargeDontExist)
	case errors.Is(err, service.ErrInvalidTitle):
		c.reply(ChargeInvalidTitle)
	case errors.Is(err, service.ErrInvalidPriority):
		c.reply(ChargeInvalidPriority)
	case errors.Is(err, service.ErrForbidden):
		c.reply(ChargePermError)
	default:
		c.unexpected(err, errInput...)
		c.reply(ChargeAddError)
	}
}

func (r *Router) getCharge(c *call) {
	var p chargeRef
	if !c.bind(&p) {
		return
	}
	charge, err := c.svc().Charge.Get(c.ctx, c.user(), p.Charge.value())
	if err != nil {
		c.chargeReadError(err)
		return
	}
	c.reply(models.NewChargeResponse(charge))
}

func (c *call) chargeReadError(err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.reply(ChargePermError)
	default:
		c.unexpected(err, errCaller...)
		c.reply(ChargeUsrChargeDontExist)
	}
}

func (r *Router) getCharges(c *call) {
	var p struct {
		CommitteeID string `json:"committee_id"`
	}
	if !c.bind(&p) {
		return
	}
	charges, err := c.svc().Charge.ListForCommittee(c.ctx, c.user(), p.CommitteeID)
	if err != nil {
		c.unexpected(err, errCaller...)
	}
	c.reply(models.NewChargeList(charges))
}

func (r *Router) getAllCharges(c *call) {
	charges, err := c.svc().Charge.ListPublic(c.ctx)
	if err != nil {
		c.unexpected(err)
	}
	c.reply(models.NewChargeList(charges))
}

func (r *Router) editCharge(c *call) {
	var p struct {
		Charge       *number   `json:"charge"`
		Title        *string   `json:"title"`
		Description  *string   `json:"description"`
		Committee    *string   `json:"committee"`
		Priority     *number   `json:"priority"`
		Status       *number   `json:"status"`
		Private      *bool     `json:"private"`
		PawLinks     *string   `json:"paw_links"`
		Objectives   *[]string `json:"objectives"`
		Schedule     *[]string `json:"schedule"`
		Resources    *[]string `json:"resources"`
		Stakeholders *[]string `json:"stakeholders"`
	}
	if !c.bind(&p) {
		return
	}

	charge, evts, err := c.svc().Charge.Edit(c.ctx, c.user(), p.Charge.value(), service.ChargeEdit{
		Title:        p.Title,
		Description:  p.Description,
		CommitteeID:  p.Committee,
		Priority:     p.Priority.intPtr(),
		Status:       p.Status.intPtr(),
		Private:      p.Private,
		PawLinks:     p.PawLinks,
		Objectives:   p.Objectives,
		Schedule:     p.Schedule,
		Resources:    p.Resources,
		Stakeholders: p.Stakeholders,
	})
	switch {
	case err == nil:
		c.reply(ChargeEditSuccess)
		c.replyAs("get_charge", models.NewChargeResponse(charge))
		c.emit(evts)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNotFound):
		c.reply(ChargeUsrChargeDontExist)
	case errors.Is(err, service.ErrForbidden):
		c.reply(ChargePermError)
	default:
		c.unexpected(err, errInput...)
		c.reply(ChargeEditError)
	}
}

func (r *Router) createProgressNote(c *call) {
	var p struct {
		Charge *number `json:"charge"`
		Body   string  `json:"body"`
	}
	if !c.bind(&p) {
		return
	}
	_, evts, err := c.svc().Charge.AddProgressNote(c.ctx, c.user(), p.Charge.value(), p.Body)
	switch {
	case err == nil:
		c.reply(ProgressNoteAddSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNotFound):
		c.reply(ChargeUsrChargeDontExist)
	case errors.Is(err, service.ErrForbidden):
		c.reply(ChargePermError)
	default:
		c.unexpected(err, errInput...)
		c.reply(ProgressNoteAddError)
	}
}

func (r *Router) getProgressNotes(c *call) {
	var p chargeRef
	if !c.bind(&p) {
		return
	}
	notes, err := c.svc().Charge.ProgressNotes(c.ctx, c.user(), p.Charge.value())
	if err != nil {
		c.chargeReadError(err)
		return
	}
	c.reply(models.NewProgressNoteList(notes))
}
