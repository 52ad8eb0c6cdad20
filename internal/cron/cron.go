package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/metrics"
)

const (
	// Every Sunday at midnight.
	notificationCleanupSpec = "0 0 * * 0"
	// Every day at 3 AM.
	invitationCleanupSpec = "0 3 * * *"

	jobTimeout = 5 * time.Minute
)

// NotificationPurger deletes viewed notifications past their retention.
type NotificationPurger interface {
	PurgeViewedOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// InvitationPurger deletes invitations and join requests nobody answered.
type InvitationPurger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron                  *cron.Cron
	notifications         NotificationPurger
	invitations           InvitationPurger
	notificationRetention time.Duration
	invitationRetention   time.Duration
}

// NewScheduler takes retention windows in days.
func NewScheduler(notifications NotificationPurger, invitations InvitationPurger, notificationDays, invitationDays int) *Scheduler {
	return &Scheduler{
		cron:                  cron.New(),
		notifications:         notifications,
		invitations:           invitations,
		notificationRetention: days(notificationDays),
		invitationRetention:   days(invitationDays),
	}
}

func days(n int) time.Duration {
	if n <= 0 {
		n = 30
	}
	return time.Duration(n) * 24 * time.Hour
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(notificationCleanupSpec, func() { s.run("notification_cleanup", s.cleanupNotifications) }); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(invitationCleanupSpec, func() { s.run("invitation_cleanup", s.cleanupInvitations) }); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("[Cron] Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("[Cron] Scheduler stopped")
}

func (s *Scheduler) run(name string, job func(ctx context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := time.Now()
	n, err := job(ctx)
	metrics.ObserveCronJob(name, started, err)
	if err != nil {
		logger.Errorf("[Cron] %s failed: %v", name, err)
		return
	}
	logger.Infof("[Cron] %s removed %d rows", name, n)
}

func (s *Scheduler) cleanupNotifications(ctx context.Context) (int, error) {
	return s.notifications.PurgeViewedOlderThan(ctx, s.notificationRetention)
}

func (s *Scheduler) cleanupInvitations(ctx context.Context) (int, error) {
	return s.invitations.PurgeOlderThan(ctx, s.invitationRetention)
}
