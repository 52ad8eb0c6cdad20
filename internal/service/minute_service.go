package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

// MinuteInput carries create_minute. Date is epoch seconds; Private defaults to true.
type MinuteInput struct {
	CommitteeID string
	Title       string
	Body        string
	Date        *int64
	Private     *bool
	ChargeIDs   []int64
}

// MinuteEdit is the edit_minute whitelist. A nil ChargeIDs keeps the links.
type MinuteEdit struct {
	Title     *string
	Body      *string
	Private   *bool
	ChargeIDs []int64
}

type MinuteService interface {
	Get(ctx context.Context, user *repository.User, id int64) (*repository.Minute, error)
	List(ctx context.Context, user *repository.User, committeeID string) ([]*repository.Minute, error)
	Create(ctx context.Context, user *repository.User, input MinuteInput) (*repository.Minute, []events.Event, error)
	Edit(ctx context.Context, user *repository.User, id int64, edit MinuteEdit) (*repository.Minute, []events.Event, error)
	Delete(ctx context.Context, user *repository.User, id int64) ([]events.Event, error)
}

type minuteService struct {
	minuteRepo    repository.MinuteRepository
	committeeRepo repository.CommitteeRepository
	chargeRepo    repository.ChargeRepository
	perms         PermissionService
}

func NewMinuteService(minuteRepo repository.MinuteRepository, committeeRepo repository.CommitteeRepository,
	chargeRepo repository.ChargeRepository, perms PermissionService) MinuteService {
	return &minuteService{minuteRepo: minuteRepo, committeeRepo: committeeRepo, chargeRepo: chargeRepo, perms: perms}
}

func (s *minuteService) load(ctx context.Context, user *repository.User, id int64) (*repository.Minute, Access, error) {
	if user == nil {
		return nil, Access{}, ErrUnauthenticated
	}
	minute, err := s.minuteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, Access{}, err
	}
	if minute == nil {
		return nil, Access{}, ErrMinuteNotFound
	}
	_, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, minute.CommitteeID)
	if err != nil {
		return nil, Access{}, err
	}
	return minute, access, nil
}

// checkCharges requires every linked charge to belong to the committee.
func (s *minuteService) checkCharges(ctx context.Context, committeeID string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	charges, err := s.chargeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[int64]bool, len(charges))
	for _, c := range charges {
		if c.CommitteeID != committeeID {
			return ErrInvalidInput
		}
		found[c.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return ErrInvalidInput
		}
	}
	return nil
}

func (s *minuteService) Get(ctx context.Context, user *repository.User, id int64) (*repository.Minute, error) {
	minute, access, err := s.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if minute.Private && !access.Can(ViewPrivate) {
		return nil, ErrForbidden
	}
	return minute, nil
}

func (s *minuteService) List(ctx context.Context, user *repository.User, committeeID string) ([]*repository.Minute, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, committeeID)
	if err != nil {
		return nil, err
	}
	return s.minuteRepo.FindByCommittee(ctx, committee.ID, access.Can(ViewPrivate))
}

func (s *minuteService) Create(ctx context.Context, user *repository.User, input MinuteInput) (*repository.Minute, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, input.CommitteeID)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" || input.Date == nil {
		return nil, nil, ErrInvalidInput
	}
	if !access.Can(WriteMinute) {
		return nil, nil, ErrForbidden
	}
	private := true
	if input.Private != nil {
		private = *input.Private
	}
	if !private && !access.Can(PublishMinute) {
		return nil, nil, ErrForbidden
	}
	if err := s.checkCharges(ctx, committee.ID, input.ChargeIDs); err != nil {
		return nil, nil, err
	}

	minute := &repository.Minute{
		Title:       strings.TrimSpace(input.Title),
		Body:        input.Body,
		Date:        *input.Date,
		Private:     private,
		CommitteeID: committee.ID,
	}
	if err := s.minuteRepo.Create(ctx, minute, input.ChargeIDs); err != nil {
		return nil, nil, err
	}
	return minute, []events.Event{events.MinutesChanged{CommitteeID: committee.ID}}, nil
}

func (s *minuteService) Edit(ctx context.Context, user *repository.User, id int64, edit MinuteEdit) (*repository.Minute, []events.Event, error) {
	minute, access, err := s.load(ctx, user, id)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(WriteMinute) {
		return nil, nil, ErrForbidden
	}
	if edit.Private != nil && !*edit.Private && !access.Can(PublishMinute) {
		return nil, nil, ErrForbidden
	}
	if err := s.checkCharges(ctx, minute.CommitteeID, edit.ChargeIDs); err != nil {
		return nil, nil, err
	}

	if edit.Title != nil {
		if strings.TrimSpace(*edit.Title) == "" {
			return nil, nil, ErrInvalidTitle
		}
		minute.Title = strings.TrimSpace(*edit.Title)
	}
	if edit.Body != nil {
		minute.Body = *edit.Body
	}
	if edit.Private != nil {
		minute.Private = *edit.Private
	}
	if err := s.minuteRepo.Update(ctx, minute, edit.ChargeIDs); err != nil {
		return nil, nil, err
	}
	return minute, []events.Event{events.MinutesChanged{CommitteeID: minute.CommitteeID}}, nil
}

func (s *minuteService) Delete(ctx context.Context, user *repository.User, id int64) ([]events.Event, error) {
	minute, access, err := s.load(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(DeleteMinute) {
		return nil, ErrForbidden
	}
	if err := s.minuteRepo.Delete(ctx, minute.ID); err != nil {
		return nil, err
	}
	return []events.Event{events.MinutesChanged{CommitteeID: minute.CommitteeID}}, nil
}
