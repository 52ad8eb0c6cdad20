package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

type CommitteeNoteService interface {
	Create(ctx context.Context, user *repository.User, committeeID, description string) (*repository.CommitteeNote, []events.Event, error)
	Get(ctx context.Context, id int64) (*repository.CommitteeNote, error)
	ListForCommittee(ctx context.Context, committeeID string) ([]*repository.CommitteeNote, error)
}

type committeeNoteService struct {
	noteRepo      repository.CommitteeNoteRepository
	committeeRepo repository.CommitteeRepository
	perms         PermissionService
}

func NewCommitteeNoteService(noteRepo repository.CommitteeNoteRepository, committeeRepo repository.CommitteeRepository,
	perms PermissionService) CommitteeNoteService {
	return &committeeNoteService{noteRepo: noteRepo, committeeRepo: committeeRepo, perms: perms}
}

func (s *committeeNoteService) Create(ctx context.Context, user *repository.User, committeeID, description string) (*repository.CommitteeNote, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	committee, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, committeeID)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(CreateCommitteeNote) {
		return nil, nil, ErrForbidden
	}
	if strings.TrimSpace(description) == "" {
		return nil, nil, ErrInvalidInput
	}

	note := &repository.CommitteeNote{
		CommitteeID: committee.ID,
		AuthorID:    user.ID,
		Description: description,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, nil, err
	}
	return note, []events.Event{events.CommitteeNotesChanged{CommitteeID: committee.ID}}, nil
}

func (s *committeeNoteService) Get(ctx context.Context, id int64) (*repository.CommitteeNote, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *committeeNoteService) ListForCommittee(ctx context.Context, committeeID string) ([]*repository.CommitteeNote, error) {
	return s.noteRepo.FindByCommittee(ctx, committeeID)
}
