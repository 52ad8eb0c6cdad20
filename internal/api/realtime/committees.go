package realtime

import (
	"errors"

	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

func (r *Router) getCommittees(c *call) {
	committees, err := c.svc().Committee.List(c.ctx)
	if err != nil {
		c.unexpected(err)
	}
	c.reply(models.NewCommitteeList(committees))
}

func (r *Router) getCommittee(c *call) {
	id, ok := c.scalar()
	if !ok {
		return
	}
	committee, err := c.svc().Committee.Get(c.ctx, id)
	if err != nil {
		c.unexpected(err, errCaller...)
		c.reply(CommitteeDoesntExist)
		return
	}
	c.reply(models.NewCommitteeResponse(committee))
}

func (r *Router) createCommittee(c *call) {
	var p struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Location    string  `json:"location"`
		MeetingTime string  `json:"meeting_time"`
		MeetingDay  *number `json:"meeting_day"`
		Head        string  `json:"head"`
		Image       *string `json:"committee_img"`
	}
	if !c.bind(&p) {
		return
	}
	day := -1
	if p.MeetingDay != nil {
		day = int(p.MeetingDay.value())
	}

	_, evts, err := c.svc().Committee.Create(c.ctx, c.user(), service.CommitteeInput{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		MeetingTime: p.MeetingTime,
		MeetingDay:  day,
		HeadID:      p.Head,
		Image:       p.Image,
	})
	switch {
	case err == nil:
		c.reply(CommitteeAddSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUserNotFound):
		c.reply(CommitteeUserDoesntExist)
	case errors.Is(err, service.ErrCommitteeExists):
		c.reply(CommitteeAddExists)
	default:
		c.unexpected(err, errInput...)
		c.reply(CommitteeAddError)
	}
}

func (r *Router) editCommittee(c *call) {
	var p struct {
		ID          string  `json:"id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Location    *string `json:"location"`
		MeetingTime *string `json:"meeting_time"`
		MeetingDay  *number `json:"meeting_day"`
		Head        *string `json:"head"`
		Image       *string `json:"committee_img"`
		Enabled     *bool   `json:"enabled"`
	}
	if !c.bind(&p) {
		return
	}

	_, evts, err := c.svc().Committee.Edit(c.ctx, c.user(), p.ID, service.CommitteeEdit{
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		MeetingTime: p.MeetingTime,
		MeetingDay:  p.MeetingDay.intPtr(),
		HeadID:      p.Head,
		Image:       p.Image,
		Enabled:     p.Enabled,
	})
	switch {
	case err == nil:
		c.reply(CommitteeEditSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrCommitteeNotFound):
		c.reply(CommitteeDoesntExist)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUserNotFound):
		c.reply(CommitteeUserDoesntExist)
	default:
		c.unexpected(err, errInput...)
		c.reply(CommitteeEditError)
	}
}
