package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orthoime/medicase-be/types"
	"github.com/orthoime/medicase-be/utils"
)

const userContextKey = "user"

// AuthMiddleware validates the bearer token and stores the claims on the
// gin context for handlers to read.
func AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  "error",
			Message: "Authorization header is required",
		})
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  "error",
			Message: "Authorization header format must be Bearer {token}",
		})
		return
	}

	claims, err := utils.ParseUserToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  "error",
			Message: "Invalid token",
		})
		return
	}

	c.Set(userContextKey, claims)
	c.Next()
}

// RequireRole gates a route group to one role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, types.DataResponse{
				Status:  "error",
				Message: "Insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated claims, or nil outside an
// authenticated route.
func CurrentUser(c *gin.Context) *utils.UserClaims {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*utils.UserClaims)
	if !ok {
		return nil
	}
	return claims
}
