package service

import (
	"context"
	"time"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
)

// ============================================
// Notification Service (for handlers)
// ============================================

// NotificationService is the owner-facing side of notifications. Rows are
// created by the notifier, never through this service.
type NotificationService interface {
	List(ctx context.Context, user *repository.User) ([]*repository.Notification, error)
	MarkViewed(ctx context.Context, user *repository.User, id int64) ([]events.Event, error)
	Delete(ctx context.Context, user *repository.User, id int64) ([]events.Event, error)
	PurgeViewedOlderThan(ctx context.Context, age time.Duration) (int, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, user *repository.User) ([]*repository.Notification, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return s.notificationRepo.FindByUserID(ctx, user.ID)
}

// owned hides other users' notifications behind not-found.
func (s *notificationService) owned(ctx context.Context, user *repository.User, id int64) (*repository.Notification, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	n, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil || n.UserID != user.ID {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

func (s *notificationService) MarkViewed(ctx context.Context, user *repository.User, id int64) ([]events.Event, error) {
	n, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.notificationRepo.MarkViewed(ctx, n.ID); err != nil {
		return nil, err
	}
	return []events.Event{events.NotificationsChanged{UserID: n.UserID}}, nil
}

func (s *notificationService) Delete(ctx context.Context, user *repository.User, id int64) ([]events.Event, error) {
	n, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.notificationRepo.Delete(ctx, n.ID); err != nil {
		return nil, err
	}
	return []events.Event{events.NotificationsChanged{UserID: n.UserID}}, nil
}

func (s *notificationService) PurgeViewedOlderThan(ctx context.Context, age time.Duration) (int, error) {
	return s.notificationRepo.DeleteViewedOlderThan(ctx, time.Now().Add(-age))
}
