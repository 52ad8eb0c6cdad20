// Package notification turns domain events into inbox rows and emails.
package notification

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/metrics"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

// EventGetNotifications is the event name used when pushing a user's inbox.
const EventGetNotifications = "get_notifications"

// Pusher delivers a payload to every live connection of a user. *socket.Hub satisfies it.
type Pusher interface {
	SendToUser(userID, msgType string, payload interface{})
}

// mentionPattern matches @username where the @ is not glued to a preceding word.
var mentionPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9\-_.])@([A-Za-z][A-Za-z0-9\-_]+)`)

// Mentions returns the distinct usernames mentioned in text, in order.
func Mentions(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Service is the notifier. It creates inbox rows for the events it knows and
// pushes the recipient's refreshed inbox.
type Service struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	pusher           Pusher
}

// NewService creates a new notification service
func NewService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// SetPusher sets the live delivery channel. Without one, rows are only stored.
func (s *Service) SetPusher(p Pusher) {
	s.pusher = p
}

// Handle implements events.Handler.
func (s *Service) Handle(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.NoteCreated:
		return s.noteCreated(ctx, ev)
	case events.ActionAssigned:
		if ev.UserID == "" {
			return nil
		}
		return s.notify(ctx, &repository.Notification{
			UserID:      ev.UserID,
			Type:        types.AssignedToAction,
			Destination: strconv.FormatInt(ev.ActionID, 10),
			Message:     "You have been assigned to the task: " + ev.ActionTitle,
			Redirect:    chargeRedirect(ev.ChargeID),
		})
	case events.HeadAssigned:
		return s.notify(ctx, &repository.Notification{
			UserID:      ev.UserID,
			Type:        types.MadeCommitteeHead,
			Destination: ev.CommitteeID,
			Message:     "You have been made the head of the committee: " + ev.CommitteeTitle,
			Redirect:    "/committee/" + ev.CommitteeID,
		})
	case events.JoinRequested:
		return s.notify(ctx, &repository.Notification{
			UserID:      ev.HeadID,
			Type:        types.UserRequest,
			Destination: strconv.FormatInt(ev.InvitationID, 10),
			Message:     fmt.Sprintf("%s has requested to join the committee: %s", ev.UserID, ev.CommitteeTitle),
			Redirect:    fmt.Sprintf("/committee/%s?invitation=%d", ev.CommitteeID, ev.InvitationID),
		})
	case events.NotificationsChanged:
		return s.Push(ctx, ev.UserID)
	}
	return nil
}

func (s *Service) noteCreated(ctx context.Context, ev events.NoteCreated) error {
	var errs []error
	for _, username := range Mentions(ev.Description) {
		user, err := s.userRepo.FindByID(ctx, username)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if user == nil {
			continue
		}
		err = s.notify(ctx, &repository.Notification{
			UserID:      user.ID,
			Type:        types.MentionedInNote,
			Destination: strconv.FormatInt(ev.NoteID, 10),
			Message:     "You have been mentioned in a note. In the task: " + ev.ActionTitle,
			Redirect:    chargeRedirect(ev.ChargeID),
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) notify(ctx context.Context, n *repository.Notification) error {
	if n.UserID == "" {
		return nil
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("create %s notification for %s: %w", n.Type, n.UserID, err)
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	logger.Debugf("[Notification] %s -> %s", n.Type, n.UserID)
	return s.Push(ctx, n.UserID)
}

// Push sends the user's full inbox to their live connections.
func (s *Service) Push(ctx context.Context, userID string) error {
	if s.pusher == nil || userID == "" {
		return nil
	}
	list, err := s.notificationRepo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load notifications for %s: %w", userID, err)
	}
	s.pusher.SendToUser(userID, EventGetNotifications, models.NewNotificationList(list))
	return nil
}

func chargeRedirect(chargeID int64) string {
	return "/charge/" + strconv.FormatInt(chargeID, 10)
}
