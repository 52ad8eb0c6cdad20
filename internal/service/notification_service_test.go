package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/repository"
	"github.com/Marga-Ghale/charge-tracker/internal/types"
)

func TestNotificationsAreOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := f.store.repos().NotificationRepo
	n := &repository.Notification{UserID: "testuser", Type: types.AssignedToAction, Message: "m", Redirect: "/charge/1"}
	require.NoError(t, repo.Create(ctx, n))

	list, err := f.svc.Notification.List(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.Notification.List(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.Notification.MarkViewed(ctx, f.admin, n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	evts, err := f.svc.Notification.MarkViewed(ctx, f.user, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []events.Event{events.NotificationsChanged{UserID: "testuser"}}, evts)
	assert.True(t, f.store.notifications[n.ID].Viewed)

	f.store.notifications[n.ID].CreatedAt = time.Now().Add(-60 * 24 * time.Hour)
	purged, err := f.svc.Notification.PurgeViewedOlderThan(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = f.svc.Notification.Delete(ctx, f.user, n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
