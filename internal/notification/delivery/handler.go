package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskportal-backend/internal/notification"
	notifdomain "taskportal-backend/internal/notification/domain"
	"taskportal-backend/internal/state"
)

// NotificationHandler serves the persistent feed and the toast slot
type NotificationHandler struct {
	feed  *notification.Feed
	store *state.Store
}

func NewNotificationHandler(feed *notification.Feed, store *state.Store) *NotificationHandler {
	return &NotificationHandler{feed: feed, store: store}
}

// List returns the feed, newest first
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var notifications []notifdomain.Notification
	h.store.View(func(s *state.AppState) {
		notifications = append([]notifdomain.Notification{}, s.Notifications...)
	})
	c.JSON(http.StatusOK, notifications)
}

// MarkRead flags one notification as read
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.feed.MarkRead(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllRead flags every notification as read
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	h.feed.MarkAllRead()
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read"})
}

// Remove deletes one notification
// DELETE /api/notifications/:id
func (h *NotificationHandler) Remove(c *gin.Context) {
	h.feed.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Notification removed"})
}

// Toast returns the live toast, if any
// GET /api/toast
func (h *NotificationHandler) Toast(c *gin.Context) {
	var toast *notifdomain.Toast
	h.store.View(func(s *state.AppState) {
		if s.Toast != nil {
			copied := *s.Toast
			toast = &copied
		}
	})
	if toast == nil {
		c.JSON(http.StatusOK, gin.H{"toast": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"toast": toast})
}

// DismissToast clears the live toast
// DELETE /api/toast
func (h *NotificationHandler) DismissToast(c *gin.Context) {
	h.feed.DismissToast()
	c.JSON(http.StatusOK, gin.H{"message": "Toast dismissed"})
}
