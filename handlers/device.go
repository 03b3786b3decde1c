package handlers

import (
	"net/http"

	"medconnect/services/directory"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	Directory directory.DirectoryService
}

func NewDeviceHandler(dir directory.DirectoryService) *DeviceHandler {
	return &DeviceHandler{Directory: dir}
}

// RegisterFCMTokenHandler stores the caller's push token.
func (h *DeviceHandler) RegisterFCMTokenHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var body struct {
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Directory.RegisterDeviceToken(c.Request.Context(), a.UserID, body.FCMToken); err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device token registered"})
}
