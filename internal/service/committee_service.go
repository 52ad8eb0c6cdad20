package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

var meetingTimePattern = regexp.MustCompile(`^[0-9]{4}$`)

// CommitteeInput carries the fields of create_committee.
type CommitteeInput struct {
	Title       string
	Description string
	Location    string
	MeetingTime string
	MeetingDay  int
	HeadID      string
	Image       *string
}

// CommitteeEdit is the edit_committee whitelist. Nil fields are left as they are.
type CommitteeEdit struct {
	Title       *string
	Description *string
	Location    *string
	MeetingTime *string
	MeetingDay  *int
	HeadID      *string
	Image       *string
	Enabled     *bool
}

type CommitteeService interface {
	List(ctx context.Context) ([]*repository.Committee, error)
	Get(ctx context.Context, id string) (*repository.Committee, error)
	Create(ctx context.Context, user *repository.User, input CommitteeInput) (*repository.Committee, []events.Event, error)
	Edit(ctx context.Context, user *repository.User, id string, edit CommitteeEdit) (*repository.Committee, []events.Event, error)
}

type committeeService struct {
	committeeRepo repository.CommitteeRepository
	userRepo      repository.UserRepository
	perms         PermissionService
	cache         Cache
}

func NewCommitteeService(committeeRepo repository.CommitteeRepository, userRepo repository.UserRepository,
	perms PermissionService, cache Cache) CommitteeService {
	return &committeeService{committeeRepo: committeeRepo, userRepo: userRepo, perms: perms, cache: cache}
}

// CommitteeID derives the primary key from a title: lower-cased, spaces removed.
func CommitteeID(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", ""))
}

func (s *committeeService) List(ctx context.Context) ([]*repository.Committee, error) {
	var cached []*repository.Committee
	if err := s.cache.GetCache(ctx, CacheKeyCommittees, &cached); err == nil {
		return cached, nil
	}

	committees, err := s.committeeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCache(ctx, CacheKeyCommittees, committees, cacheTTL); err != nil {
		logger.Debugf("[Cache] set %s: %v", CacheKeyCommittees, err)
	}
	return committees, nil
}

func (s *committeeService) Get(ctx context.Context, id string) (*repository.Committee, error) {
	committee, err := s.committeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if committee == nil {
		return nil, ErrCommitteeNotFound
	}
	return committee, nil
}

func validMeeting(timeOfDay string, day int) bool {
	return meetingTimePattern.MatchString(timeOfDay) && day >= 0 && day <= 6
}

func (s *committeeService) findHead(ctx context.Context, id string) (*repository.User, error) {
	head, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, ErrUserNotFound
	}
	return head, nil
}

func (s *committeeService) Create(ctx context.Context, user *repository.User, input CommitteeInput) (*repository.Committee, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	if !ResolveAccess(user, nil, nil).Can(ManageCommittee) {
		return nil, nil, ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || !validMeeting(input.MeetingTime, input.MeetingDay) || input.HeadID == "" {
		return nil, nil, ErrInvalidInput
	}
	head, err := s.findHead(ctx, input.HeadID)
	if err != nil {
		return nil, nil, err
	}

	committee := &repository.Committee{
		ID:          CommitteeID(title),
		Title:       title,
		Description: input.Description,
		Location:    input.Location,
		MeetingTime: input.MeetingTime,
		MeetingDay:  input.MeetingDay,
		HeadID:      input.HeadID,
		HeadName:    head.FullName(),
		Image:       input.Image,
		Enabled:     true,
	}
	if err := s.committeeRepo.Create(ctx, committee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrCommitteeExists
		}
		return nil, nil, err
	}

	return committee, []events.Event{
		events.CommitteesChanged{CommitteeID: committee.ID},
		events.MembersChanged{CommitteeID: committee.ID},
		events.HeadAssigned{CommitteeID: committee.ID, CommitteeTitle: committee.Title, UserID: committee.HeadID},
	}, nil
}

func (s *committeeService) Edit(ctx context.Context, user *repository.User, id string, edit CommitteeEdit) (*repository.Committee, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, id)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(ManageCommittee) {
		return nil, nil, ErrForbidden
	}

	previousHead := committee.HeadID
	if edit.Title != nil {
		if strings.TrimSpace(*edit.Title) == "" {
			return nil, nil, ErrInvalidTitle
		}
		committee.Title = strings.TrimSpace(*edit.Title)
	}
	if edit.Description != nil {
		committee.Description = *edit.Description
	}
	if edit.Location != nil {
		committee.Location = *edit.Location
	}
	if edit.MeetingTime != nil {
		committee.MeetingTime = *edit.MeetingTime
	}
	if edit.MeetingDay != nil {
		committee.MeetingDay = *edit.MeetingDay
	}
	if edit.Image != nil {
		committee.Image = edit.Image
	}
	if edit.Enabled != nil {
		committee.Enabled = *edit.Enabled
	}
	if !validMeeting(committee.MeetingTime, committee.MeetingDay) {
		return nil, nil, ErrInvalidInput
	}
	if edit.HeadID != nil && *edit.HeadID != previousHead {
		head, err := s.findHead(ctx, *edit.HeadID)
		if err != nil {
			return nil, nil, err
		}
		committee.HeadID = head.ID
		committee.HeadName = head.FullName()
	}

	if err := s.committeeRepo.Update(ctx, committee, previousHead); err != nil {
		return nil, nil, err
	}

	evts := []events.Event{events.CommitteesChanged{CommitteeID: committee.ID}}
	if committee.HeadID != previousHead {
		evts = append(evts,
			events.MembersChanged{CommitteeID: committee.ID},
			events.HeadAssigned{CommitteeID: committee.ID, CommitteeTitle: committee.Title, UserID: committee.HeadID},
		)
	}
	return committee, evts, nil
}
