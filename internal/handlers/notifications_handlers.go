package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/internal/notify"
	"github.com/valeriaulyamaeva/neofin/models"
)

// Notifier sends a notification subject to the user's limits.
type Notifier interface {
	Send(ctx context.Context, n *models.Notification) error
}

// GetNotificationsHandler возвращает уведомления пользователя, с ?unread=true только непрочитанные.
func GetNotificationsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		unreadOnly := c.Query("unread") == "true"
		notifications, err := database.GetNotificationsByUserID(c.Request.Context(), db, userID(c), unreadOnly)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

func CreateNotificationHandler(notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var notification models.Notification
		if !bindJSON(c, &notification) {
			return
		}
		notification.UserID = userID(c)
		notification.IsRead = false

		err := notifier.Send(c.Request.Context(), &notification)
		if errors.Is(err, notify.ErrMuted) {
			c.JSON(http.StatusAccepted, gin.H{"status": "muted"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, notification)
	}
}

func MarkNotificationAsReadHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.MarkNotificationAsRead(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func MarkAllNotificationsAsReadHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := database.MarkAllNotificationsAsRead(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}

func DeleteNotificationHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteNotification(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
