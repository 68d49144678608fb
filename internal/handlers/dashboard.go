package handlers

import (
	"net/http"

	"github.com/confhub/conference-api/internal/dto"
	apierrors "github.com/confhub/conference-api/internal/errors"
	"github.com/confhub/conference-api/internal/middleware"
	"github.com/confhub/conference-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the signed-in user's overview: favorited
// conferences, authored conferences awaiting sharing, and talk
// submissions.
type DashboardHandler struct {
	confRepo repository.ConferenceRepository
	talkRepo repository.TalkRepository
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(confRepo repository.ConferenceRepository, talkRepo repository.TalkRepository) *DashboardHandler {
	return &DashboardHandler{
		confRepo: confRepo,
		talkRepo: talkRepo,
	}
}

// GetDashboard returns the current user's dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	favorites, err := h.confRepo.ListFavoritedBy(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load favorites")
		return
	}

	unshared, err := h.confRepo.ListUnsharedBy(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load conferences")
		return
	}

	submissions, err := h.talkRepo.ListSubmissionsByUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load submissions")
		return
	}

	favoriteDTOs := make([]dto.ConferenceListItemDTO, 0, len(favorites))
	for _, conference := range favorites {
		favoriteDTOs = append(favoriteDTOs, dto.ToConferenceListItemDTO(conference))
	}

	unsharedDTOs := make([]dto.ConferenceListItemDTO, 0, len(unshared))
	for _, conference := range unshared {
		unsharedDTOs = append(unsharedDTOs, dto.ToConferenceListItemDTO(conference))
	}

	submissionDTOs := make([]dto.TalkSubmissionDTO, 0, len(submissions))
	for _, submission := range submissions {
		submissionDTOs = append(submissionDTOs, dto.ToTalkSubmissionDTO(submission))
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites":   favoriteDTOs,
		"unshared":    unsharedDTOs,
		"submissions": submissionDTOs,
	})
}
