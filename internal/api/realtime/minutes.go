package realtime

import (
	"errors"

	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

type minuteRef struct {
	MinuteID *number `json:"minute_id"`
}

func (c *call) minuteError(err error, fallback Result) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.reply(MinuteUserDoesntExist)
	case errors.Is(err, service.ErrMinuteNotFound):
		c.reply(MinuteDoesntExist)
	case errors.Is(err, service.ErrCommitteeNotFound):
		c.reply(MinuteCommitteeDoesntExist)
	case errors.Is(err, service.ErrForbidden):
		c.reply(MinutePermError)
	case errors.Is(err, service.ErrInvalidInput):
		c.reply(MinuteInvalidData)
	default:
		c.unexpected(err)
		c.reply(fallback)
	}
}

func (r *Router) getMinute(c *call) {
	var p minuteRef
	if !c.bind(&p) {
		return
	}
	minute, err := c.svc().Minute.Get(c.ctx, c.user(), p.MinuteID.value())
	if err != nil {
		c.minuteError(err, MinuteDoesntExist)
		return
	}
	c.reply(models.NewMinuteResponse(minute))
}

func (r *Router) getMinutes(c *call) {
	var p struct {
		CommitteeID string `json:"committee_id"`
	}
	if !c.bind(&p) {
		return
	}
	minutes, err := c.svc().Minute.List(c.ctx, c.user(), p.CommitteeID)
	if err != nil {
		c.minuteError(err, MinuteCommitteeDoesntExist)
		return
	}
	c.reply(models.NewMinuteList(minutes))
}

func (r *Router) createMinute(c *call) {
	var p struct {
		CommitteeID string   `json:"committee_id"`
		Title       string   `json:"title"`
		Body        string   `json:"body"`
		Date        *number  `json:"date"`
		Private     *bool    `json:"private"`
		Charges     []number `json:"charges"`
	}
	if !c.bind(&p) {
		return
	}
	var date *int64
	if p.Date != nil {
		d := p.Date.value()
		date = &d
	}
	_, evts, err := c.svc().Minute.Create(c.ctx, c.user(), service.MinuteInput{
		CommitteeID: p.CommitteeID,
		Title:       p.Title,
		Body:        p.Body,
		Date:        date,
		Private:     p.Private,
		ChargeIDs:   numbers(p.Charges),
	})
	if err != nil {
		c.minuteError(err, MinuteAddError)
		return
	}
	c.reply(MinuteAddSuccess)
	c.emit(evts)
}

func (r *Router) editMinute(c *call) {
	var p struct {
		MinuteID *number  `json:"minute_id"`
		Title    *string  `json:"title"`
		Body     *string  `json:"body"`
		Private  *bool    `json:"private"`
		Charges  []number `json:"charges"`
	}
	if !c.bind(&p) {
		return
	}
	_, evts, err := c.svc().Minute.Edit(c.ctx, c.user(), p.MinuteID.value(), service.MinuteEdit{
		Title:     p.Title,
		Body:      p.Body,
		Private:   p.Private,
		ChargeIDs: numbers(p.Charges),
	})
	if err != nil {
		c.minuteError(err, MinuteEditError)
		return
	}
	c.reply(MinuteEditSuccess)
	c.emit(evts)
}

func (r *Router) deleteMinute(c *call) {
	var p minuteRef
	if !c.bind(&p) {
		return
	}
	evts, err := c.svc().Minute.Delete(c.ctx, c.user(), p.MinuteID.value())
	if err != nil {
		c.minuteError(err, MinuteDeleteError)
		return
	}
	c.reply(MinuteDeleteSuccess)
	c.emit(evts)
}
