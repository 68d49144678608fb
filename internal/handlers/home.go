package handlers

import (
	"net/http"

	"github.com/confhub/conference-api/internal/dto"
	apierrors "github.com/confhub/conference-api/internal/errors"
	"github.com/confhub/conference-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// HomeHandler serves the public landing data: featured speakers and
// featured conferences.
type HomeHandler struct {
	confRepo repository.ConferenceRepository
	userRepo repository.UserRepository
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(confRepo repository.ConferenceRepository, userRepo repository.UserRepository) *HomeHandler {
	return &HomeHandler{
		confRepo: confRepo,
		userRepo: userRepo,
	}
}

// GetHome returns the featured speakers and conferences.
func (h *HomeHandler) GetHome(c *gin.Context) {
	speakers, err := h.userRepo.ListFeatured()
	if err != nil {
		apierrors.InternalError(c, "Failed to load speakers")
		return
	}

	conferences, err := h.confRepo.ListFeatured()
	if err != nil {
		apierrors.InternalError(c, "Failed to load conferences")
		return
	}

	speakerDTOs := make([]dto.UserDTO, 0, len(speakers))
	for _, speaker := range speakers {
		speakerDTOs = append(speakerDTOs, dto.ToSpeakerDTO(speaker))
	}

	conferenceDTOs := make([]dto.ConferenceListItemDTO, 0, len(conferences))
	for _, conference := range conferences {
		conferenceDTOs = append(conferenceDTOs, dto.ToConferenceListItemDTO(conference))
	}

	c.JSON(http.StatusOK, gin.H{
		"speakers":    speakerDTOs,
		"conferences": conferenceDTOs,
	})
}
