package handlers

import (
	"errors"
	"net/http"

	"medconnect/models"
	"medconnect/services/notification"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Inbox notification.Inbox
}

func NewNotificationHandler(inbox notification.Inbox) *NotificationHandler {
	return &NotificationHandler{Inbox: inbox}
}

func (h *NotificationHandler) ListHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	items, err := h.Inbox.List(c.Request.Context(), a.UserID, c.Query("unread") == "true")
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	err := h.Inbox.MarkRead(c.Request.Context(), a.UserID, c.Param("id"))
	if errors.Is(err, notification.ErrNotificationNotFound) {
		utils.JSONError(c, http.StatusNotFound, "not_found", "Notification not found", c.Param("id"))
		return
	}
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
