package realtime

import (
	"errors"

	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

type memberPayload struct {
	UserID      string            `json:"user_id"`
	CommitteeID string            `json:"committee_id"`
	Role        *types.MemberRole `json:"role"`
}

func (r *Router) getMembers(c *call) {
	id, ok := c.scalar()
	if !ok {
		return
	}
	members, err := c.svc().Member.List(c.ctx, id)
	if err != nil {
		c.unexpected(err, errCaller...)
		c.reply(MemberComDoesntExist)
		return
	}
	c.reply(models.NewMembersResponse(id, members))
}

func (r *Router) addMember(c *call) {
	var p memberPayload
	if !c.bind(&p) {
		return
	}
	outcome, evts, err := c.svc().Member.Add(c.ctx, c.user(), p.CommitteeID, p.UserID, p.Role)
	if err == nil {
		switch outcome {
		case service.InviteSent:
			c.reply(InviteSent)
		case service.RequestSent:
			c.reply(RequestSent)
		default:
			c.reply(MemberAddSuccess)
		}
		c.emit(evts)
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrCommitteeNotFound), errors.Is(err, service.ErrUserNotFound):
		c.reply(MemberUserDoesntExist)
	case errors.Is(err, service.ErrInviteExists):
		c.reply(InviteExists)
	case errors.Is(err, service.ErrInviteFailed):
		c.unexpected(err)
		c.reply(InviteError)
	case errors.Is(err, service.ErrRequestExists):
		c.reply(RequestExists)
	case errors.Is(err, service.ErrRequestFailed):
		c.unexpected(err)
		c.reply(RequestError)
	case errors.Is(err, service.ErrAlreadyMember):
		c.reply(UserIsPart)
	case errors.Is(err, service.ErrInvalidRole):
		c.reply(MemberRoleError)
	default:
		c.unexpected(err, errInput...)
		c.reply(MemberAddError)
	}
}

func (r *Router) removeMember(c *call) {
	var p memberPayload
	if !c.bind(&p) {
		return
	}
	evts, err := c.svc().Member.Remove(c.ctx, c.user(), p.CommitteeID, p.UserID)
	switch {
	case err == nil:
		c.reply(MemberRemoveSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrForbidden):
		c.reply(MemberPermError)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNotFound):
		c.reply(MemberUserDoesntExist)
	default:
		c.unexpected(err, errInput...)
		c.reply(MemberRemoveError)
	}
}

func (r *Router) editMemberRole(c *call) {
	var p memberPayload
	if !c.bind(&p) {
		return
	}
	if p.Role == nil {
		c.reply(MemberRoleError)
		return
	}
	evts, err := c.svc().Member.EditRole(c.ctx, c.user(), p.CommitteeID, p.UserID, *p.Role)
	switch {
	case err == nil:
		c.reply(MemberEditSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrForbidden):
		c.reply(MemberPermError)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNotFound):
		c.reply(MemberUserDoesntExist)
	default:
		c.unexpected(err, errInput...)
		c.reply(MemberRoleError)
	}
}
