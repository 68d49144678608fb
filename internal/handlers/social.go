package handlers

import (
	"errors"
	"net/http"

	"github.com/confhub/conference-api/internal/constants"
	apierrors "github.com/confhub/conference-api/internal/errors"
	"github.com/confhub/conference-api/internal/middleware"
	"github.com/confhub/conference-api/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SocialHandler coordinates social-login HTTP handlers.
type SocialHandler struct {
	socialService *services.SocialService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(socialService *services.SocialService) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
	}
}

// Redirect sends the browser to the provider's login page. An already
// authenticated user goes straight to the dashboard; an unknown
// service name redirects home without raising.
func (h *SocialHandler) Redirect(c *gin.Context) {
	if _, authenticated := middleware.GetUserID(c); authenticated {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	service := c.Param("service")
	url, err := h.socialService.AuthURL(service, c.Query("state"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.Redirect(http.StatusFound, url)
}

// Callback handles the provider's redirect back: it exchanges the
// code, resolves the profile to a known user and opens the session.
// Unknown emails get the no-signups response and no user is created.
func (h *SocialHandler) Callback(c *gin.Context) {
	service := c.Param("service")

	user, err := h.socialService.Login(c.Request.Context(), service, c.Query("code"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownSocialService):
			c.Redirect(http.StatusFound, "/")
		case errors.Is(err, services.ErrSignupsDisabled):
			c.JSON(http.StatusOK, gin.H{
				"message": "Signups are disabled. Only existing accounts can log in.",
			})
		default:
			apierrors.InternalError(c, "Social login failed")
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}
