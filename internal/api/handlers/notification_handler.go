package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/charge-tracker/internal/api/middleware"
	"github.com/Marga-Ghale/charge-tracker/internal/events"
	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/models"
	"github.com/Marga-Ghale/charge-tracker/internal/service"
)

// ============================================
// Notification Handler
// ============================================

type NotificationHandler struct {
	notificationService service.NotificationService
	dispatcher          *events.Dispatcher
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), user)
	if err != nil {
		logger.Errorf("[Notifications] List failed for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, models.NewNotificationList(notifications))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id, ok := notificationID(c)
	if !ok {
		return
	}

	evts, err := h.notificationService.MarkViewed(c.Request.Context(), user, id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification set to viewed."})
	publish(c, h.dispatcher, evts)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id, ok := notificationID(c)
	if !ok {
		return
	}

	evts, err := h.notificationService.Delete(c.Request.Context(), user, id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Failed to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
	publish(c, h.dispatcher, evts)
}

func notificationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return 0, false
	}
	return id, true
}
