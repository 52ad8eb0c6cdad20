package realtime

import (
	"errors"

	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

func (r *Router) createNote(c *call) {
	var p struct {
		Action      *number `json:"action"`
		Description string  `json:"description"`
	}
	if !c.bind(&p) {
		return
	}
	_, evts, err := c.svc().Note.Create(c.ctx, c.user(), p.Action.value(), p.Description)
	switch {
	case err == nil:
		c.reply(NoteAddSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrActionNotFound):
		c.reply(NoteActionDoesntExist)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrForbidden):
		c.reply(NoteUsrNotAuth)
	default:
		c.unexpected(err, errInput...)
		c.reply(NoteAddError)
	}
}

func (r *Router) getNote(c *call) {
	id, ok := c.scalarID()
	if !ok {
		return
	}
	note, err := c.svc().Note.Get(c.ctx, c.user(), id)
	if err != nil {
		c.unexpected(err, errCaller...)
		c.reply(struct{}{})
		return
	}
	c.reply(models.NewNoteResponse(note))
}

func (r *Router) getNotes(c *call) {
	id, ok := c.scalarID()
	if !ok {
		return
	}
	notes, err := c.svc().Note.ListForAction(c.ctx, c.user(), id)
	if err != nil {
		c.unexpected(err, errCaller...)
		notes = nil
	}
	c.reply(models.NewNoteList(notes))
}

func (r *Router) modifyNote(c *call) {
	var p struct {
		ID          *number `json:"id"`
		Description *string `json:"description"`
		Hidden      *bool   `json:"hidden"`
	}
	if !c.bind(&p) {
		return
	}
	_, evts, err := c.svc().Note.Modify(c.ctx, c.user(), p.ID.value(), service.NoteEdit{
		Description: p.Description,
		Hidden:      p.Hidden,
	})
	switch {
	case err == nil:
		c.reply(NoteModifySuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrUnauthenticated):
		c.reply(NoteUsrDoesntExist)
	case errors.Is(err, service.ErrNoteNotFound):
		c.reply(NoteDoesntExist)
	case errors.Is(err, service.ErrForbidden):
		c.reply(NoteUsrNotAuth)
	default:
		c.unexpected(err, errInput...)
		c.reply(NoteModifyError)
	}
}

func (r *Router) createCommitteeNote(c *call) {
	var p struct {
		Committee   string `json:"committee"`
		Description string `json:"description"`
	}
	if !c.bind(&p) {
		return
	}
	_, evts, err := c.svc().CommitteeNote.Create(c.ctx, c.user(), p.Committee, p.Description)
	switch {
	case err == nil:
		c.reply(CommitteeNoteAddSuccess)
		c.emit(evts)
	case errors.Is(err, service.ErrCommitteeNotFound):
		c.reply(CommitteeNoteCommitteeDoesntExist)
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrForbidden):
		c.reply(CommitteeNoteUsrNotAuth)
	default:
		c.unexpected(err, errInput...)
		c.reply(CommitteeNoteAddError)
	}
}

func (r *Router) getCommitteeNote(c *call) {
	id, ok := c.scalarID()
	if !ok {
		return
	}
	note, err := c.svc().CommitteeNote.Get(c.ctx, id)
	if err != nil {
		c.unexpected(err, errCaller...)
		c.reply(struct{}{})
		return
	}
	c.reply(models.NewCommitteeNoteResponse(note))
}

func (r *Router) getCommitteeNotes(c *call) {
	id, ok := c.scalar()
	if !ok {
		return
	}
	notes, err := c.svc().CommitteeNote.ListForCommittee(c.ctx, id)
	if err != nil {
		c.unexpected(err, errCaller...)
	}
	c.reply(models.NewCommitteeNoteList(notes))
}
