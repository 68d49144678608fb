package middleware

import (
	"net/http"
	"strconv"

	"github.com/confhub/conference-api/internal/constants"
	"github.com/confhub/conference-api/internal/database"
	"github.com/confhub/conference-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireConferenceOwner checks if the current user authored the
// conference. Non-owners are redirected home with the conference left
// untouched; the refusal is silent rather than a permission error.
func RequireConferenceOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		conferenceIDStr := c.Param("id")
		conferenceID, err := strconv.ParseUint(conferenceIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid conference ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var conference models.Conference
		if err := database.GetDB().First(&conference, conferenceID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Conference not found",
			})
			c.Abort()
			return
		}

		if conference.AuthorID != userID {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyConference, conference)
		c.Next()
	}
}

// GetConference retrieves the conference loaded by
// RequireConferenceOwner from the context.
func GetConference(c *gin.Context) (models.Conference, bool) {
	value, exists := c.Get(constants.ContextKeyConference)
	if !exists {
		return models.Conference{}, false
	}

	conference, ok := value.(models.Conference)
	return conference, ok
}
