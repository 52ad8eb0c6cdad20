package realtime

import "github.com/Marga-Ghale/charge-tracker/internal/models"

type notificationRef struct {
	NotificationID *number `json:"notificationId"`
}

func (r *Router) getNotifications(c *call) {
	var p struct{}
	if !c.bind(&p) {
		return
	}
	list, err := c.svc().Notification.List(c.ctx, c.user())
	if err != nil {
		c.unexpected(err, errCaller...)
	}
	c.reply(models.NewNotificationList(list))
}

func (r *Router) updateNotification(c *call) {
	var p notificationRef
	if !c.bind(&p) {
		return
	}
	evts, err := c.svc().Notification.MarkViewed(c.ctx, c.user(), p.NotificationID.value())
	if err != nil {
		c.unexpected(err, errCaller...)
		c.reply(NotificationNotUpdated)
		return
	}
	c.reply(NotificationViewed)
	c.emit(evts)
}

func (r *Router) deleteNotification(c *call) {
	var p notificationRef
	if !c.bind(&p) {
		return
	}
	evts, err := c.svc().Notification.Delete(c.ctx, c.user(), p.NotificationID.value())
	if err != nil {
		c.unexpected(err, errCaller...)
		c.reply(NotificationNotDeleted)
		return
	}
	c.reply(NotificationDeleted)
	c.emit(evts)
}
