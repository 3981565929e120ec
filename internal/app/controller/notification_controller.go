package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// ListNotifications returns the most recent notifications, newest first
// GET /api/notifications?limit=
func (ctrl *NotificationController) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	notifications, err := ctrl.notificationService.ListRecent(limit)
	if err != nil {
		respondError(c, err, "List notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// UnreadCount
// GET /api/notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *gin.Context) {
	count, err := ctrl.notificationService.UnreadCount()
	if err != nil {
		respondError(c, err, "Count unread notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead
// PUT /api/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.MarkRead(id); err != nil {
		respondError(c, err, "Mark notification read")
		return
	}
	messageResponse(c, "Notification marked as read")
}

// MarkAllRead
// PUT /api/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	updated, err := ctrl.notificationService.MarkAllRead()
	if err != nil {
		respondError(c, err, "Mark all notifications read")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}

// DeleteNotification
// DELETE /api/notifications/:id
func (ctrl *NotificationController) DeleteNotification(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.Delete(id); err != nil {
		respondError(c, err, "Delete notification")
		return
	}
	messageResponse(c, "Notification removed")
}
