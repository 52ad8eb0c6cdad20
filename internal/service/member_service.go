package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// AddOutcome reports which branch add_member_committee took.
type AddOutcome int

const (
	MemberAdded AddOutcome = iota
	InviteSent
	RequestSent
)

type MemberService interface {
	List(ctx context.Context, committeeID string) ([]*repository.Member, error)
	// Add adds targetID when the caller manages the committee. A manager adding an
	// unknown username creates an invitation instead; anyone else files a join
	// request for themselves.
	Add(ctx context.Context, user *repository.User, committeeID, targetID string, role *types.MemberRole) (AddOutcome, []events.Event, error)
	Remove(ctx context.Context, user *repository.User, committeeID, targetID string) ([]events.Event, error)
	EditRole(ctx context.Context, user *repository.User, committeeID, targetID string, role types.MemberRole) ([]events.Event, error)
}

type memberService struct {
	committeeRepo  repository.CommitteeRepository
	memberRepo     repository.MemberRepository
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationRepository
	perms          PermissionService
}

func NewMemberService(
	committeeRepo repository.CommitteeRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	invitationRepo repository.InvitationRepository,
	perms PermissionService,
) MemberService {
	return &memberService{
		committeeRepo:  committeeRepo,
		memberRepo:     memberRepo,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		perms:          perms,
	}
}

func (s *memberService) List(ctx context.Context, committeeID string) ([]*repository.Member, error) {
	committee, err := s.committeeRepo.FindByID(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	if committee == nil {
		return nil, ErrCommitteeNotFound
	}
	return s.memberRepo.FindByCommittee(ctx, committeeID)
}

// assignableRole rejects CommitteeHead, which only moves through edit_committee.
func assignableRole(role *types.MemberRole) (types.MemberRole, error) {
	if role == nil || *role == "" {
		return types.NormalMember, nil
	}
	if !role.Valid() || *role == types.CommitteeHead {
		return "", ErrInvalidRole
	}
	return *role, nil
}

func (s *memberService) Add(ctx context.Context, user *repository.User, committeeID, targetID string, role *types.MemberRole) (AddOutcome, []events.Event, error) {
	if user == nil {
		return 0, nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, committeeID)
	if err != nil {
		return 0, nil, err
	}

	if !access.Can(ManageMembers) {
		return s.requestToJoin(ctx, user, committee)
	}

	if targetID == "" {
		targetID = user.ID
	}
	newRole, err := assignableRole(role)
	if err != nil {
		return 0, nil, err
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return 0, nil, err
	}
	if target == nil {
		return s.invite(ctx, targetID, committee)
	}
	if target.ID == committee.HeadID {
		return 0, nil, ErrAlreadyMember
	}

	if err := s.memberRepo.Add(ctx, &repository.Member{
		CommitteeID: committee.ID,
		UserID:      target.ID,
		Role:        newRole,
	}); err != nil {
		return 0, nil, err
	}
	return MemberAdded, []events.Event{events.MembersChanged{CommitteeID: committee.ID}}, nil
}

func (s *memberService) invite(ctx context.Context, userName string, committee *repository.Committee) (AddOutcome, []events.Event, error) {
	inv := &repository.Invitation{UserName: userName, CommitteeID: committee.ID, IsInvite: true}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, nil, ErrInviteExists
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrInviteFailed, err)
	}
	return InviteSent, []events.Event{events.InviteCreated{
		InvitationID:   inv.ID,
		CommitteeID:    committee.ID,
		CommitteeTitle: committee.Title,
		HeadID:         committee.HeadID,
		UserName:       userName,
	}}, nil
}

func (s *memberService) requestToJoin(ctx context.Context, user *repository.User, committee *repository.Committee) (AddOutcome, []events.Event, error) {
	member, err := s.memberRepo.Find(ctx, committee.ID, user.ID)
	if err != nil {
		return 0, nil, err
	}
	if member != nil {
		return 0, nil, ErrAlreadyMember
	}

	inv := &repository.Invitation{UserName: user.ID, CommitteeID: committee.ID, IsInvite: false}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, nil, ErrRequestExists
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return RequestSent, []events.Event{events.JoinRequested{
		InvitationID:   inv.ID,
		CommitteeID:    committee.ID,
		CommitteeTitle: committee.Title,
		HeadID:         committee.HeadID,
		UserID:         user.ID,
	}}, nil
}

func (s *memberService) Remove(ctx context.Context, user *repository.User, committeeID, targetID string) ([]events.Event, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, committeeID)
	if err != nil {
		return nil, err
	}
	if !access.Can(ManageMembers) {
		return nil, ErrForbidden
	}
	if targetID == committee.HeadID {
		return nil, ErrHeadRemoval
	}

	member, err := s.memberRepo.Find(ctx, committee.ID, targetID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	if err := s.memberRepo.Remove(ctx, committee.ID, targetID); err != nil {
		return nil, err
	}
	return []events.Event{events.MembersChanged{CommitteeID: committee.ID}}, nil
}

func (s *memberService) EditRole(ctx context.Context, user *repository.User, committeeID, targetID string, role types.MemberRole) ([]events.Event, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, committeeID)
	if err != nil {
		return nil, err
	}
	if !access.Can(ManageMembers) {
		return nil, ErrForbidden
	}
	newRole, err := assignableRole(&role)
	if err != nil || role == "" {
		return nil, ErrInvalidRole
	}
	if targetID == committee.HeadID {
		return nil, ErrInvalidRole
	}

	member, err := s.memberRepo.Find(ctx, committee.ID, targetID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	if err := s.memberRepo.UpdateRole(ctx, committee.ID, targetID, newRole); err != nil {
		return nil, err
	}
	return []events.Event{events.MembersChanged{CommitteeID: committee.ID}}, nil
}
