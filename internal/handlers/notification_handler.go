package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the polling endpoint the client hits every ten
// seconds. There is no notifications table yet, so the answer is always an
// empty list; the route is reserved for a future per-user inbox.
type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

func (h *NotificationHandler) Register(api *gin.RouterGroup) {
	api.GET("/notifications", h.ListNotifications)
	api.POST("/upload", h.UploadStub)
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, []interface{}{})
}

// UploadStub answers the reserved direct-upload route. Image uploads
// currently ride along on POST /api/items as a multipart field.
func (h *NotificationHandler) UploadStub(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Upload endpoint ready"})
}
