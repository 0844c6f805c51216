package controllers

import (
	"net/http"

	"github.com/foodhub/foodhub-api/config"
	"github.com/foodhub/foodhub-api/services"
	"github.com/gin-gonic/gin"
)

// ListNotifications handles GET /api/v1/notifications - the caller's inbox plus unread count
func ListNotifications(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	notificationService := services.NewNotificationService(config.GetDB())
	notifications, err := notificationService.ListFor(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	unread, err := notificationService.UnreadCount(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"notifications": notifications, "unread_count": unread})
}

// GetUnreadCount handles GET /api/v1/notifications/unread-count
func GetUnreadCount(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	unread, err := services.NewNotificationService(config.GetDB()).UnreadCount(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"unread_count": unread})
}

// MarkNotificationRead handles PUT /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewNotificationService(config.GetDB()).MarkRead(c.Request.Context(), id, identity.UserID); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// DeleteNotification handles DELETE /api/v1/notifications/:id
func DeleteNotification(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.NewNotificationService(config.GetDB()).Delete(c.Request.Context(), id, identity.UserID); err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Notification deleted"})
}
