package middleware

import (
	"net/http"

	"medconnect/models"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only if the caller has one of roles.
// Must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "User not authenticated", Code: "unauthorized"})
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
			Error: "Insufficient role",
			Code:  "forbidden",
		})
	}
}
