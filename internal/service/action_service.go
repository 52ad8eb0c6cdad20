package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// ActionInput carries create_action. Title, description and assignee are required.
type ActionInput struct {
	ChargeID    int64
	AssignedTo  string
	Title       string
	Description *string
}

// ActionEdit is the edit_action whitelist.
type ActionEdit struct {
	Title       *string
	Description *string
	Status      *int
	AssignedTo  *string
}

type ActionService interface {
	Create(ctx context.Context, user *repository.User, input ActionInput) (*repository.Action, []events.Event, error)
	Get(ctx context.Context, user *repository.User, id int64) (*repository.Action, error)
	ListForCharge(ctx context.Context, user *repository.User, chargeID int64) ([]*repository.Action, error)
	Edit(ctx context.Context, user *repository.User, id int64, edit ActionEdit) (*repository.Action, []events.Event, error)
}

type actionService struct {
	actionRepo    repository.ActionRepository
	chargeRepo    repository.ChargeRepository
	committeeRepo repository.CommitteeRepository
	userRepo      repository.UserRepository
	perms         PermissionService
}

func NewActionService(actionRepo repository.ActionRepository, chargeRepo repository.ChargeRepository,
	committeeRepo repository.CommitteeRepository, userRepo repository.UserRepository, perms PermissionService) ActionService {
	return &actionService{
		actionRepo:    actionRepo,
		chargeRepo:    chargeRepo,
		committeeRepo: committeeRepo,
		userRepo:      userRepo,
		perms:         perms,
	}
}

// chargeAccess loads the parent charge and the caller's access to its committee.
func (s *actionService) chargeAccess(ctx context.Context, user *repository.User, chargeID int64) (*repository.Charge, Access, error) {
	charge, err := s.chargeRepo.FindByID(ctx, chargeID)
	if err != nil {
		return nil, Access{}, err
	}
	if charge == nil {
		return nil, Access{}, ErrChargeNotFound
	}
	_, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, charge.CommitteeID)
	if err != nil {
		return nil, Access{}, err
	}
	return charge, access, nil
}

func (s *actionService) userExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

func (s *actionService) Create(ctx context.Context, user *repository.User, input ActionInput) (*repository.Action, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	charge, access, err := s.chargeAccess(ctx, user, input.ChargeID)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(CreateAction) {
		return nil, nil, ErrForbidden
	}

	if strings.TrimSpace(input.Title) == "" || input.Description == nil {
		return nil, nil, ErrInvalidInput
	}
	ok, err := s.userExists(ctx, input.AssignedTo)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvalidInput
	}

	author, assignee := user.ID, input.AssignedTo
	action := &repository.Action{
		Title:       strings.TrimSpace(input.Title),
		Description: *input.Description,
		ChargeID:    charge.ID,
		AuthorID:    &author,
		AssignedTo:  &assignee,
		Status:      types.ActionInProgress,
	}
	if err := s.actionRepo.Create(ctx, action); err != nil {
		return nil, nil, err
	}
	return action, []events.Event{
		events.ActionsChanged{ChargeID: charge.ID, CommitteeID: charge.CommitteeID},
		events.ActionAssigned{ActionID: action.ID, ActionTitle: action.Title, ChargeID: charge.ID, UserID: assignee},
	}, nil
}

func (s *actionService) Get(ctx context.Context, user *repository.User, id int64) (*repository.Action, error) {
	action, err := s.actionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, ErrActionNotFound
	}
	charge, access, err := s.chargeAccess(ctx, user, action.ChargeID)
	if err != nil {
		return nil, err
	}
	if charge.Private && !access.Can(ViewPrivate) {
		return nil, ErrForbidden
	}
	return action, nil
}

func (s *actionService) ListForCharge(ctx context.Context, user *repository.User, chargeID int64) ([]*repository.Action, error) {
	charge, access, err := s.chargeAccess(ctx, user, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.Private && !access.Can(ViewPrivate) {
		return nil, ErrForbidden
	}
	return s.actionRepo.FindByCharge(ctx, charge.ID)
}

func (s *actionService) Edit(ctx context.Context, user *repository.User, id int64, edit ActionEdit) (*repository.Action, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	action, err := s.actionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if action == nil {
		return nil, nil, ErrActionNotFound
	}
	charge, access, err := s.chargeAccess(ctx, user, action.ChargeID)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(EditAction) {
		return nil, nil, ErrForbidden
	}

	var previous string
	if action.AssignedTo != nil {
		previous = *action.AssignedTo
	}
	if edit.Title != nil {
		if strings.TrimSpace(*edit.Title) == "" {
			return nil, nil, ErrInvalidTitle
		}
		action.Title = strings.TrimSpace(*edit.Title)
	}
	if edit.Description != nil {
		action.Description = *edit.Description
	}
	if edit.Status != nil {
		if !types.ActionStatus(*edit.Status).Valid() {
			return nil, nil, ErrInvalidStatus
		}
		action.Status = types.ActionStatus(*edit.Status)
	}
	if edit.AssignedTo != nil && *edit.AssignedTo != previous {
		ok, err := s.userExists(ctx, *edit.AssignedTo)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, ErrInvalidInput
		}
		assignee := *edit.AssignedTo
		action.AssignedTo = &assignee
	}

	if err := s.actionRepo.Update(ctx, action); err != nil {
		return nil, nil, err
	}

	evts := []events.Event{events.ActionsChanged{ChargeID: charge.ID, CommitteeID: charge.CommitteeID}}
	if action.AssignedTo != nil && *action.AssignedTo != previous {
		evts = append(evts, events.ActionAssigned{
			ActionID: action.ID, ActionTitle: action.Title, ChargeID: charge.ID, UserID: *action.AssignedTo,
		})
	}
	return action, evts, nil
}
