package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/email"
	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

// Renderer builds messages. *email.Service satisfies it.
type Renderer interface {
	Render(name, subject string, to []string, data interface{}) (email.Message, error)
	Address(username string) string
}

// Mailer enqueues invitation and join-request emails.
type Mailer struct {
	renderer  Renderer
	queue     email.Queue
	userRepo  repository.UserRepository
	clientURL string
}

func NewMailer(renderer Renderer, queue email.Queue, userRepo repository.UserRepository, clientURL string) *Mailer {
	return &Mailer{
		renderer:  renderer,
		queue:     queue,
		userRepo:  userRepo,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// Handle implements events.Handler.
func (m *Mailer) Handle(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.InviteCreated:
		return m.invite(ctx, ev)
	case events.JoinRequested:
		return m.request(ctx, ev)
	}
	return nil
}

func (m *Mailer) invite(ctx context.Context, ev events.InviteCreated) error {
	head, err := m.displayName(ctx, ev.HeadID)
	if err != nil {
		return err
	}
	msg, err := m.renderer.Render(email.TemplateInvitation, "You're Invited",
		[]string{m.renderer.Address(ev.UserName)},
		email.InvitationData{
			UserName:      ev.UserName,
			CommitteeName: ev.CommitteeTitle,
			CommitteeHead: head,
			InviteURL:     fmt.Sprintf("%s/invitation/%d", m.clientURL, ev.InvitationID),
		})
	if err != nil {
		return err
	}
	return m.queue.Enqueue(ctx, msg)
}

func (m *Mailer) request(ctx context.Context, ev events.JoinRequested) error {
	head, err := m.userRepo.FindByID(ctx, ev.HeadID)
	if err != nil {
		return err
	}
	if head == nil {
		return fmt.Errorf("committee head %q not found", ev.HeadID)
	}
	requester, err := m.displayName(ctx, ev.UserID)
	if err != nil {
		return err
	}

	to := head.Email
	if to == "" {
		to = m.renderer.Address(head.ID)
	}
	msg, err := m.renderer.Render(email.TemplateRequest, fmt.Sprintf("%s wants to join %s", requester, ev.CommitteeTitle),
		[]string{to},
		email.RequestData{
			UserName:      requester,
			CommitteeName: ev.CommitteeTitle,
			CommitteeHead: nameOf(head),
			RequestURL:    fmt.Sprintf("%s/committee/%s?invitation=%d", m.clientURL, ev.CommitteeID, ev.InvitationID),
		})
	if err != nil {
		return err
	}
	return m.queue.Enqueue(ctx, msg)
}

func (m *Mailer) displayName(ctx context.Context, id string) (string, error) {
	u, err := m.userRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if u == nil {
		return id, nil
	}
	return nameOf(u), nil
}

func nameOf(u *repository.User) string {
	if n := u.FullName(); n != "" {
		return n
	}
	return u.ID
}
