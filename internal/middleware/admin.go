package middleware

import (
	"net/http"

	"github.com/confhub/conference-api/internal/database"
	"github.com/confhub/conference-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireAdmin checks if the current user is an administrator
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsAdmin reports whether the context user is an administrator.
// Anonymous viewers are not admins.
func IsAdmin(c *gin.Context) bool {
	userID, exists := GetUserID(c)
	if !exists {
		return false
	}

	var user models.User
	if err := database.GetDB().First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsAdmin()
}
