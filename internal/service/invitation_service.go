package service

import (
	"context"
	"errors"
	"time"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// InvitationDetail pairs an invitation with its committee for get_invitation.
type InvitationDetail struct {
	Invitation *repository.Invitation
	Committee  *repository.Committee
}

type InvitationService interface {
	Get(ctx context.Context, user *repository.User, id int64) (*InvitationDetail, error)
	// Set accepts (status true) or denies (status false) an invitation or join
	// request. It reports whether a membership was created.
	Set(ctx context.Context, user *repository.User, id int64, status *bool) (bool, []events.Event, error)
	PurgeOlderThan(ctx context.Context, age time.Duration) (int, error)
}

type invitationService struct {
	invitationRepo repository.InvitationRepository
	committeeRepo  repository.CommitteeRepository
	memberRepo     repository.MemberRepository
	userRepo       repository.UserRepository
	perms          PermissionService
}

func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	committeeRepo repository.CommitteeRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	perms PermissionService,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		committeeRepo:  committeeRepo,
		memberRepo:     memberRepo,
		userRepo:       userRepo,
		perms:          perms,
	}
}

func (s *invitationService) load(ctx context.Context, user *repository.User, id int64) (*InvitationDetail, Access, error) {
	if user == nil {
		return nil, Access{}, ErrUnauthenticated
	}
	inv, err := s.invitationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, Access{}, err
	}
	if inv == nil {
		return nil, Access{}, ErrInvitationNotFound
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, inv.CommitteeID)
	if err != nil {
		if errors.Is(err, ErrCommitteeNotFound) {
			return nil, Access{}, ErrInvitationNotFound
		}
		return nil, Access{}, err
	}
	return &InvitationDetail{Invitation: inv, Committee: committee}, access, nil
}

func (s *invitationService) Get(ctx context.Context, user *repository.User, id int64) (*InvitationDetail, error) {
	detail, access, err := s.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	inv := detail.Invitation
	if !access.Can(ManageMembers) && !(inv.IsInvite && inv.UserName == user.ID) {
		return nil, ErrForbidden
	}
	return detail, nil
}

func (s *invitationService) Set(ctx context.Context, user *repository.User, id int64, status *bool) (bool, []events.Event, error) {
	detail, access, err := s.load(ctx, user, id)
	if err != nil {
		return false, nil, err
	}
	if status == nil {
		return false, nil, ErrInvalidStatus
	}
	inv := detail.Invitation
	manager := access.Can(ManageMembers)
	invitee := inv.IsInvite && inv.UserName == user.ID

	switch {
	case !inv.IsInvite && !manager:
		return false, nil, ErrForbidden
	case inv.IsInvite && !invitee && !(manager && !*status):
		return false, nil, ErrForbidden
	}

	if !*status {
		if err := s.invitationRepo.Delete(ctx, inv.ID); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	member, err := s.memberRepo.Find(ctx, inv.CommitteeID, inv.UserName)
	if err != nil {
		return false, nil, err
	}
	if member != nil || detail.Committee.HeadID == inv.UserName {
		return false, nil, ErrAlreadyMember
	}
	target, err := s.userRepo.FindByID(ctx, inv.UserName)
	if err != nil {
		return false, nil, err
	}
	if target == nil {
		return false, nil, ErrUserNotFound
	}

	if err := s.invitationRepo.Accept(ctx, inv, types.NormalMember); err != nil {
		return false, nil, err
	}
	return true, []events.Event{events.MembersChanged{CommitteeID: inv.CommitteeID}}, nil
}

func (s *invitationService) PurgeOlderThan(ctx context.Context, age time.Duration) (int, error) {
	return s.invitationRepo.DeleteOlderThan(ctx, time.Now().Add(-age))
}
