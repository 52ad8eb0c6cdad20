package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

// NoteEdit is the modify_note whitelist.
type NoteEdit struct {
	Description *string
	Hidden      *bool
}

type NoteService interface {
	Create(ctx context.Context, user *repository.User, actionID int64, description string) (*repository.Note, []events.Event, error)
	// Get and ListForAction follow the charge's privacy. Hidden notes are
	// only returned to their author and to admins.
	Get(ctx context.Context, user *repository.User, id int64) (*repository.Note, error)
	ListForAction(ctx context.Context, user *repository.User, actionID int64) ([]*repository.Note, error)
	// Modify is allowed to admins and to the note's author.
	Modify(ctx context.Context, user *repository.User, id int64, edit NoteEdit) (*repository.Note, []events.Event, error)
}

type noteService struct {
	noteRepo      repository.NoteRepository
	actionRepo    repository.ActionRepository
	chargeRepo    repository.ChargeRepository
	committeeRepo repository.CommitteeRepository
	perms         PermissionService
}

func NewNoteService(noteRepo repository.NoteRepository, actionRepo repository.ActionRepository,
	chargeRepo repository.ChargeRepository, committeeRepo repository.CommitteeRepository, perms PermissionService) NoteService {
	return &noteService{
		noteRepo:      noteRepo,
		actionRepo:    actionRepo,
		chargeRepo:    chargeRepo,
		committeeRepo: committeeRepo,
		perms:         perms,
	}
}

// actionContext resolves the action, its charge and the committee access.
func (s *noteService) actionContext(ctx context.Context, user *repository.User, actionID int64) (*repository.Action, *repository.Charge, Access, error) {
	action, err := s.actionRepo.FindByID(ctx, actionID)
	if err != nil {
		return nil, nil, Access{}, err
	}
	if action == nil {
		return nil, nil, Access{}, ErrActionNotFound
	}
	charge, err := s.chargeRepo.FindByID(ctx, action.ChargeID)
	if err != nil {
		return nil, nil, Access{}, err
	}
	if charge == nil {
		return nil, nil, Access{}, ErrActionNotFound
	}
	_, access, err := committeeAccess(ctx, s.committeeRepo, s.perms, user, charge.CommitteeID)
	if err != nil {
		return nil, nil, Access{}, err
	}
	return action, charge, access, nil
}

func (s *noteService) Create(ctx context.Context, user *repository.User, actionID int64, description string) (*repository.Note, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	action, charge, access, err := s.actionContext(ctx, user, actionID)
	if err != nil {
		return nil, nil, err
	}
	if !access.Can(CreateNote) {
		return nil, nil, ErrForbidden
	}
	if strings.TrimSpace(description) == "" {
		return nil, nil, ErrInvalidInput
	}

	note := &repository.Note{
		ActionID:    action.ID,
		AuthorID:    user.ID,
		AuthorName:  user.FullName(),
		Description: description,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, nil, err
	}
	return note, []events.Event{
		events.NotesChanged{ActionID: action.ID, CommitteeID: charge.CommitteeID},
		events.NoteCreated{
			NoteID:      note.ID,
			ActionID:    action.ID,
			ActionTitle: action.Title,
			ChargeID:    charge.ID,
			AuthorID:    user.ID,
			Description: description,
		},
	}, nil
}

// readable resolves the action for a read and rejects callers who cannot see
// its charge.
func (s *noteService) readable(ctx context.Context, user *repository.User, actionID int64) error {
	_, charge, access, err := s.actionContext(ctx, user, actionID)
	if err != nil {
		return err
	}
	if charge.Private && !access.Can(ViewPrivate) {
		return ErrForbidden
	}
	return nil
}

func visibleTo(user *repository.User, note *repository.Note) bool {
	if !note.Hidden {
		return true
	}
	return user != nil && (user.IsAdmin || user.ID == note.AuthorID)
}

func (s *noteService) Get(ctx context.Context, user *repository.User, id int64) (*repository.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil || !visibleTo(user, note) {
		return nil, ErrNoteNotFound
	}
	if err := s.readable(ctx, user, note.ActionID); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) ListForAction(ctx context.Context, user *repository.User, actionID int64) ([]*repository.Note, error) {
	if err := s.readable(ctx, user, actionID); err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.FindByAction(ctx, actionID)
	if err != nil {
		return nil, err
	}
	visible := notes[:0]
	for _, n := range notes {
		if visibleTo(user, n) {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

func (s *noteService) Modify(ctx context.Context, user *repository.User, id int64, edit NoteEdit) (*repository.Note, []events.Event, error) {
	if user == nil {
		return nil, nil, ErrUnauthenticated
	}
	note, err := s.noteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if note == nil {
		return nil, nil, ErrNoteNotFound
	}
	if !user.IsAdmin && note.AuthorID != user.ID {
		return nil, nil, ErrForbidden
	}

	if edit.Description != nil {
		note.Description = *edit.Description
	}
	if edit.Hidden != nil {
		note.Hidden = *edit.Hidden
	}
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, nil, err
	}

	var committeeID string
	if action, err := s.actionRepo.FindByID(ctx, note.ActionID); err == nil && action != nil {
		if charge, err := s.chargeRepo.FindByID(ctx, action.ChargeID); err == nil && charge != nil {
			committeeID = charge.CommitteeID
		}
	}
	return note, []events.Event{events.NotesChanged{ActionID: note.ActionID, CommitteeID: committeeID}}, nil
}
