package service

import (
	"context"

	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// Permission is the caller's standing in one committee, lowest to highest.
type Permission int

const (
	NoAccess Permission = iota
	CanView
	CanContribute
	CanCreate
	CanEdit
)

func (p Permission) String() string {
	switch p {
	case CanView:
		return "view"
	case CanContribute:
		return "contribute"
	case CanCreate:
		return "create"
	case CanEdit:
		return "edit"
	}
	return "none"
}

// Capability names one guarded operation.
type Capability int

const (
	ViewPrivate Capability = iota
	CreateCharge
	EditCharge
	PublishCharge // make public or move to another committee
	CreateAction
	EditAction
	CreateNote
	CreateCommitteeNote
	WriteMinute
	PublishMinute
	DeleteMinute
	ManageMembers
	AddProgressNote
	ManageCommittee
)

// Access is the resolved standing of a user in a committee.
type Access struct {
	Level  Permission
	Role   types.MemberRole // empty when not a member
	Admin  bool
	Member bool
}

// ResolveAccess is the only place a (user, committee) pair becomes a permission level.
func ResolveAccess(user *repository.User, committee *repository.Committee, member *repository.Member) Access {
	if user == nil {
		return Access{Level: NoAccess}
	}
	a := Access{Level: CanView, Admin: user.IsAdmin}
	if member != nil {
		a.Member = true
		a.Role = member.Role
		switch member.Role {
		case types.NormalMember:
			a.Level = CanContribute
		case types.ActiveMember, types.MinuteTaker:
			a.Level = CanCreate
		case types.CommitteeHead:
			a.Level = CanEdit
		}
	}
	if committee != nil && committee.HeadID == user.ID {
		a.Role = types.CommitteeHead
		a.Level = CanEdit
	}
	if user.IsAdmin {
		a.Level = CanEdit
	}
	return a
}

// Can is the policy table every service consults.
func (a Access) Can(c Capability) bool {
	switch c {
	case ViewPrivate:
		return a.Level >= CanContribute
	case CreateCharge, EditCharge:
		return a.Level >= CanEdit || a.Role == types.ActiveMember
	case WriteMinute:
		return a.Level >= CanEdit || a.Role == types.MinuteTaker
	case AddProgressNote:
		return a.Level >= CanCreate
	case ManageCommittee:
		return a.Admin
	case PublishCharge, CreateAction, EditAction, CreateNote, CreateCommitteeNote,
		PublishMinute, DeleteMinute, ManageMembers:
		return a.Level >= CanEdit
	}
	return false
}

// PermissionService resolves Access with the membership lookup it needs.
type PermissionService interface {
	Resolve(ctx context.Context, user *repository.User, committee *repository.Committee) (Access, error)
}

type permissionService struct {
	memberRepo repository.MemberRepository
}

func NewPermissionService(memberRepo repository.MemberRepository) PermissionService {
	return &permissionService{memberRepo: memberRepo}
}

func (s *permissionService) Resolve(ctx context.Context, user *repository.User, committee *repository.Committee) (Access, error) {
	if user == nil || committee == nil {
		return ResolveAccess(user, committee, nil), nil
	}
	member, err := s.memberRepo.Find(ctx, committee.ID, user.ID)
	if err != nil {
		return Access{}, err
	}
	return ResolveAccess(user, committee, member), nil
}
