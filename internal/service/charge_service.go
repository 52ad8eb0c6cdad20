package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// ChargeInput carries the fields of create_charge. Priority is required;
// Private defaults to true when nil.
type ChargeInput struct {
	CommitteeID  string
	Title        string
	Description  string
	Priority     *int
	Private      *bool
	PawLinks     string
	Objectives   []string
	Schedule     []string
	Resources    []string
	Stakeholders []string
}

// ChargeEdit is the edit_charge whitelist.
type ChargeEdit struct {
	Title        *string
	Description  *string
	CommitteeID  *string
	Priority     *int
	Status       *int
	Private      *bool
	PawLinks     *string
	Objectives   *[]string
	Schedule     *[]string
	Resources    *[]string
	Stakeholders *[]string
}

type ChargeService interface {
	Create(ctx context.Context, user *repository.User, input ChargeInput) (*repository.Charge, []events.Event, error)
	Get(ctx context.Context, user *repository.User, id int64) (*repository.Charge, error)
	// ListForCommittee hides private charges from callers without ViewPrivate.
	// An unknown committee yields an empty list.
	ListForCommittee(ctx context.Context, user *repository.User, committeeID string) ([]*repository.Charge, error)
	ListPublic(ctx context.Context) ([]*repository.Charge, error)
	Edit(ctx context.Context, user *repository.User, id int64, edit ChargeEdit) (*repository.Charge, []events.Event, error)
	AddProgressNote(ctx context.Context, user *repository.User, chargeID int64, body string) (*repository.ProgressNote, []events.Event, error)
	ProgressNotes(ctx context.Context, user *repository.User, chargeID int64) ([]*repository.ProgressNote, error)
}

type chargeService struct {
	chargeRepo    repository.ChargeRepository
	committeeRepo repository.CommitteeRepository
	perms         PermissionService
	cache         Cache
}

func NewChargeService(chargeRepo repository.ChargeRepository, committeeRepo repository.CommitteeRepository,
	perms PermissionService, cache Cache) ChargeService {
	return &chargeService{chargeRepo: chargeRepo, committeeRepo: committeeRepo, perms: perms, cache: cache}
}

func (s *chargeService) Create(ctx context.Context, user *repository.User, input ChargeInput) (*repository.Charge, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, input.CommitteeID)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(CreateCharge) {
		return nil, nil, ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, nil, ErrInvalidTitle
	}
	if input.Priority == nil || !types.Priority(*input.Priority).Valid() {
		return nil, nil, ErrInvalidPriority
	}
	private := true
	if input.Private != nil {
		private = *input.Private
	}
	if !private && !access.Can(PublishCharge) {
		return nil, nil, ErrForbidden
	}

	author := user.ID
	charge := &repository.Charge{
		Title:        title,
		Description:  input.Description,
		CommitteeID:  committee.ID,
		AuthorID:     &author,
		Priority:     types.Priority(*input.Priority),
		Status:       types.ChargeUnapproved,
		Private:      private,
		PawLinks:     input.PawLinks,
		Objectives:   input.Objectives,
		Schedule:     input.Schedule,
		Resources:    input.Resources,
		Stakeholders: input.Stakeholders,
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, nil, err
	}
	return charge, []events.Event{events.ChargesChanged{CommitteeID: committee.ID}}, nil
}

// visibleCharge loads a charge and checks that the caller may see it.
func (s *chargeService) visibleCharge(ctx context.Context, user *repository.User, id int64) (*repository.Charge, Access, error) {
	charge, err := s.chargeRepo.FindByID(ctx, id)
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
	if charge.Private && !access.Can(ViewPrivate) {
		return nil, Access{}, ErrForbidden
	}
	return charge, access, nil
}

func (s *chargeService) Get(ctx context.Context, user *repository.User, id int64) (*repository.Charge, error) {
	charge, _, err := s.visibleCharge(ctx, user, id)
	return charge, err
}

func (s *chargeService) ListForCommittee(ctx context.Context, user *repository.User, committeeID string) ([]*repository.Charge, error) {
	committee, err := s.committeeRepo.FindByID(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	if committee == nil {
		return []*repository.Charge{}, nil
	}
	access, err := s.perms.Resolve(ctx, user, committee)
	if err != nil {
		return nil, err
	}
	return s.chargeRepo.FindByCommittee(ctx, committee.ID, access.Can(ViewPrivate))
}

func (s *chargeService) ListPublic(ctx context.Context) ([]*repository.Charge, error) {
	var cached []*repository.Charge
	if err := s.cache.GetCache(ctx, CacheKeyPublicCharges, &cached); err == nil {
		return cached, nil
	}
	charges, err := s.chargeRepo.FindPublic(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCache(ctx, CacheKeyPublicCharges, charges, cacheTTL); err != nil {
		logger.Debugf("[Cache] set %s: %v", CacheKeyPublicCharges, err)
	}
	return charges, nil
}

func (s *chargeService) Edit(ctx context.Context, user *repository.User, id int64, edit ChargeEdit) (*repository.Charge, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	charge, err := s.chargeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if charge == nil {
		return nil, nil, ErrChargeNotFound
	}
	_, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, charge.CommitteeID)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(EditCharge) {
		return nil, nil, ErrForbidden
	}

	previousCommittee := charge.CommitteeID
	if edit.Title != nil {
		if strings.TrimSpace(*edit.Title) == "" {
			return nil, nil, ErrInvalidTitle
		}
		charge.Title = strings.TrimSpace(*edit.Title)
	}
	if edit.Description != nil {
		charge.Description = *edit.Description
	}
	if edit.Priority != nil {
		if !types.Priority(*edit.Priority).Valid() {
			return nil, nil, ErrInvalidPriority
		}
		charge.Priority = types.Priority(*edit.Priority)
	}
	if edit.Status != nil {
		if !types.ChargeStatus(*edit.Status).Valid() {
			return nil, nil, ErrInvalidStatus
		}
		charge.Status = types.ChargeStatus(*edit.Status)
	}
	if edit.Private != nil {
		if !*edit.Private && charge.Private && !access.Can(PublishCharge) {
			return nil, nil, ErrForbidden
		}
		charge.Private = *edit.Private
	}
	if edit.PawLinks != nil {
		charge.PawLinks = *edit.PawLinks
	}
	if edit.Objectives != nil {
		charge.Objectives = *edit.Objectives
	}
	if edit.Schedule != nil {
		charge.Schedule = *edit.Schedule
	}
	if edit.Resources != nil {
		charge.Resources = *edit.Resources
	}
	if edit.Stakeholders != nil {
		charge.Stakeholders = *edit.Stakeholders
	}
	if edit.CommitteeID != nil && *edit.CommitteeID != previousCommittee {
		if !access.Can(PublishCharge) {
			return nil, nil, ErrForbidden
		}
		_, target, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, *edit.CommitteeID)
		if err != nil {
			return nil, nil, err
		}
		if !target.Can(PublishCharge) {
			return nil, nil, ErrForbidden
		}
		charge.CommitteeID = *edit.CommitteeID
	}

	if err := s.chargeRepo.Update(ctx, charge); err != nil {
		return nil, nil, err
	}

	updated := events.ChargeUpdated{ChargeID: charge.ID, CommitteeID: charge.CommitteeID}
	evts := []events.Event{events.ChargesChanged{CommitteeID: charge.CommitteeID}}
	if charge.CommitteeID != previousCommittee {
		updated.PreviousCommittee = previousCommittee
		evts = append(evts, events.ChargesChanged{CommitteeID: previousCommittee})
	}
	return charge, append(evts, updated), nil
}

func (s *chargeService) AddProgressNote(ctx context.Context, user *repository.User, chargeID int64, body string) (*repository.ProgressNote, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	charge, access, err := s.visibleCharge(ctx, user, chargeID)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(AddProgressNote) {
		return nil, nil, ErrForbidden
	}
	if strings.TrimSpace(body) == "" {
		return nil, nil, ErrInvalidInput
	}

	note := &repository.ProgressNote{ChargeID: charge.ID, AuthorID: user.ID, Body: body}
	if err := s.chargeRepo.AddProgressNote(ctx, note); err != nil {
		return nil, nil, err
	}
	return note, []events.Event{events.ProgressNotesChanged{ChargeID: charge.ID, CommitteeID: charge.CommitteeID}}, nil
}

func (s *chargeService) ProgressNotes(ctx context.Context, user *repository.User, chargeID int64) ([]*repository.ProgressNote, error) {
	charge, _, err := s.visibleCharge(ctx, user, chargeID)
	if err != nil {
		return nil, err
	}
	return s.chargeRepo.FindProgressNotes(ctx, charge.ID)
}
