package middleware

import (
	"net/http"
	"strings"

	"medconnect/models"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	// browsers cannot set headers on a websocket upgrade
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// JWTAuthMiddleware verifies the bearer token and stores the caller's id and role on the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error: "Missing or invalid Authorization header",
				Code:  "unauthorized",
			})
			return
		}

		claims, err := utils.ParseClaims(tokenString)
		if err != nil {
			zap.L().Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error: "Invalid token",
				Code:  "unauthorized",
			})
			return
		}

		role := models.Role(claims.Role)
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error: "Unknown role in token",
				Code:  "unauthorized",
			})
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// ActorFromContext returns the caller set by JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	userID := c.GetString(ctxUserID)
	raw, exists := c.Get(ctxRole)
	if !exists || userID == "" {
		return models.Actor{}, false
	}
	role, ok := raw.(models.Role)
	if !ok {
		return models.Actor{}, false
	}
	return models.Actor{UserID: userID, Role: role}, true
}
