package models

import "github.com/Marga-Ghale/charge-tracker/internal/repository"

// InvitationResponse is the get_invitation reply.
type InvitationResponse struct {
	CommitteeHead  string `json:"committee_head"`
	CommitteeID    string `json:"committee_id"`
	CommitteeTitle string `json:"committee_title"`
	CurrentUser    string `json:"current_user"`
	InviteUser     string `json:"invite_user"`
	IsInvite       bool   `json:"is_invite"`
}

func NewInvitationResponse(inv *repository.Invitation, committee *repository.Committee, current *repository.User) InvitationResponse {
	r := InvitationResponse{
		CommitteeID: inv.CommitteeID,
		InviteUser:  inv.UserName,
		IsInvite:    inv.IsInvite,
	}
	if committee != nil {
		r.CommitteeHead = committee.HeadID
		r.CommitteeTitle = committee.Title
	}
	if current != nil {
		r.CurrentUser = current.ID
	}
	return r
}
