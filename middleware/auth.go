package middleware

import (
	"net/http"
	"strings"

	"github.com/Nitteswaran/Routely/db"
	"github.com/Nitteswaran/Routely/models"
	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid bearer token and loads the
// authenticated user into the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.DB.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present but never fails
// the request. Incident reports may be anonymous.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			if claims, err := utils.ParseToken(strings.TrimPrefix(auth, "Bearer ")); err == nil {
				var user models.User
				if err := db.DB.First(&user, claims.UserID).Error; err == nil {
					c.Set("user", user)
				}
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the context, if any.
func CurrentUser(c *gin.Context) (models.User, bool) {
	u, ok := c.Get("user")
	if !ok {
		return models.User{}, false
	}
	user, ok := u.(models.User)
	return user, ok
}
