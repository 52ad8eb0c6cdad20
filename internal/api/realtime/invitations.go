package realtime

import (
	"errors"

	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

func (c *call) invitationError(err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrUserNotFound):
		c.reply(NotAuthenticated)
	case errors.Is(err, service.ErrInvitationNotFound), errors.Is(err, service.ErrCommitteeNotFound):
		c.reply(InviteDoesntExist)
	case errors.Is(err, service.ErrInvalidStatus):
		c.reply(InvalidStatus)
	case errors.Is(err, service.ErrForbidden):
		c.reply(IncorrectPerms)
	case errors.Is(err, service.ErrAlreadyMember):
		c.reply(UserIsPart)
	default:
		c.unexpected(err)
		c.reply(InviteDoesntExist)
	}
}

func (r *Router) getInvitation(c *call) {
	var p struct {
		InvitationID *number `json:"invitation_id"`
	}
	if !c.bind(&p) {
		return
	}
	detail, err := c.svc().Invitation.Get(c.ctx, c.user(), p.InvitationID.value())
	if err != nil {
		c.invitationError(err)
		return
	}
	c.reply(models.NewInvitationResponse(detail.Invitation, detail.Committee, c.user()))
}

func (r *Router) setInvitation(c *call) {
	var p struct {
		InvitationID *number `json:"invitation_id"`
		Status       *bool   `json:"status"`
	}
	if !c.bind(&p) {
		return
	}
	accepted, evts, err := c.svc().Invitation.Set(c.ctx, c.user(), p.InvitationID.value(), p.Status)
	if err != nil {
		c.invitationError(err)
		return
	}
	if accepted {
		c.reply(InviteAccept)
	} else {
		c.reply(InviteDeny)
	}
	c.emit(evts)
}
