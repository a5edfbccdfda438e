package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/pkg/response"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the current user's notifications, newest first.
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notificationService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notifications)
}

// MarkRead marks one notification as read.
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead marks every notification of the current user as read.
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Delete removes one of the current user's notifications.
// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
