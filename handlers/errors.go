package handlers

import (
	"net/http"

	"medconnect/middleware"
	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeBookingError maps typed service errors onto their status and code. Anything else is a 500.
func writeBookingError(c *gin.Context, err error) {
	if coded, ok := booking.AsCoded(err); ok {
		c.AbortWithStatusJSON(coded.HTTPStatus(), utils.ErrorResponse{
			Error:   http.StatusText(coded.HTTPStatus()),
			Code:    coded.Code(),
			Details: coded.Error(),
		})
		return
	}
	getLogger(c).Error("Unhandled service error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{
		Error: "Internal Server Error",
		Code:  "internal",
	})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{
		Error:   "Invalid request payload",
		Code:    booking.CodeValidation,
		Details: err.Error(),
	})
}

// actor returns the authenticated caller or aborts with 401.
func actor(c *gin.Context) (models.Actor, bool) {
	a, ok := middleware.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "User not authenticated", Code: "unauthorized"})
	}
	return a, ok
}
