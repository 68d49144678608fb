package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/confhub/conference-api/internal/dto"
	apierrors "github.com/confhub/conference-api/internal/errors"
	"github.com/confhub/conference-api/internal/middleware"
	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/repository"
	"github.com/confhub/conference-api/internal/services"
	"github.com/confhub/conference-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// ConferenceHandler coordinates conference HTTP handlers.
type ConferenceHandler struct {
	conferenceService *services.ConferenceService
	listingService    *services.ListingService
	engagementService *services.EngagementService
	talkRepo          repository.TalkRepository
}

// NewConferenceHandler creates a new ConferenceHandler.
func NewConferenceHandler(
	conferenceService *services.ConferenceService,
	listingService *services.ListingService,
	engagementService *services.EngagementService,
	talkRepo repository.TalkRepository,
) *ConferenceHandler {
	return &ConferenceHandler{
		conferenceService: conferenceService,
		listingService:    listingService,
		engagementService: engagementService,
		talkRepo:          talkRepo,
	}
}

// ConferenceRequest is the create/update request body.
type ConferenceRequest struct {
	Title          string                 `json:"title" binding:"required,max=255"`
	Description    string                 `json:"description"`
	URL            string                 `json:"url" binding:"omitempty,url"`
	Location       string                 `json:"location"`
	Latitude       *string                `json:"latitude"`
	Longitude      *string                `json:"longitude"`
	StartsAt       *time.Time             `json:"starts_at"`
	EndsAt         *time.Time             `json:"ends_at"`
	HasCfp         *bool                  `json:"has_cfp"`
	CfpStartsAt    *time.Time             `json:"cfp_starts_at"`
	CfpEndsAt      *time.Time             `json:"cfp_ends_at"`
	SpeakerPackage *models.SpeakerPackage `json:"speaker_package"`
}

func (r ConferenceRequest) toInput() services.ConferenceInput {
	return services.ConferenceInput{
		Title:          r.Title,
		Description:    r.Description,
		URL:            r.URL,
		Location:       r.Location,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
		HasCfp:         r.HasCfp,
		CfpStartsAt:    r.CfpStartsAt,
		CfpEndsAt:      r.CfpEndsAt,
		SpeakerPackage: r.SpeakerPackage,
	}
}

// ListConferences returns the filtered, sorted, month-windowed
// conference listing. Anonymous viewers are allowed.
func (h *ConferenceHandler) ListConferences(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	params := utils.GetPaginationParams(c)

	input := services.ListConferencesInput{
		Filter:        c.Query("filter"),
		Sort:          c.Query("sort"),
		Direction:     c.Query("direction"),
		ViewerID:      viewerID,
		ViewerIsAdmin: middleware.IsAdmin(c),
		Page:          params.Page,
		PageSize:      params.Limit,
	}

	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid year")
			return
		}
		month, err := strconv.Atoi(c.DefaultQuery("month", "1"))
		if err != nil || month < 1 || month > 12 {
			apierrors.BadRequest(c, "Invalid month")
			return
		}
		input.Year = year
		input.Month = time.Month(month)
	}

	page, err := h.listingService.ListConferences(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownFilter),
			errors.Is(err, services.ErrUnknownSort),
			errors.Is(err, services.ErrUnknownDirection):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to list conferences")
		}
		return
	}

	items := make([]dto.ConferenceListItemDTO, 0, len(page.Conferences))
	for _, conference := range page.Conferences {
		items = append(items, dto.ToConferenceListItemDTO(conference))
	}

	c.JSON(http.StatusOK, dto.ConferenceListResponse{
		Conferences: items,
		Year:        page.Year,
		Month:       int(page.Month),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: page.Total,
		},
	})
}

// SearchConferences runs a free-text search over title and location.
func (h *ConferenceHandler) SearchConferences(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		apierrors.BadRequest(c, "Missing search query")
		return
	}

	conferences, err := h.conferenceService.SearchConferences(query)
	if err != nil {
		apierrors.InternalError(c, "Search failed")
		return
	}

	items := make([]dto.ConferenceListItemDTO, 0, len(conferences))
	for _, conference := range conferences {
		items = append(items, dto.ToConferenceListItemDTO(conference))
	}

	c.JSON(http.StatusOK, gin.H{"conferences": items})
}

// CreateConference submits a new conference, authored by the current
// user and awaiting approval.
func (h *ConferenceHandler) CreateConference(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req ConferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	conference, err := h.conferenceService.CreateConference(userID, req.toInput())
	if err != nil {
		respondConferenceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToConferenceDTO(*conference, false))
}

// GetConference returns one conference with the viewer's talk
// submissions. Rejected conferences are a 404 for non-admins.
func (h *ConferenceHandler) GetConference(c *gin.Context) {
	conferenceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid conference ID")
		return
	}

	viewerIsAdmin := middleware.IsAdmin(c)
	conference, err := h.conferenceService.GetConference(conferenceID, viewerIsAdmin)
	if err != nil {
		respondConferenceError(c, err)
		return
	}

	response := gin.H{
		"conference": dto.ToConferenceDTO(*conference, viewerIsAdmin),
	}

	if viewerID, authenticated := middleware.GetUserID(c); authenticated {
		submissions, err := h.talkRepo.ListSubmissionsForConference(viewerID, conferenceID)
		if err != nil {
			apierrors.InternalError(c, "Failed to load talks")
			return
		}
		talks := make([]dto.TalkSubmissionDTO, 0, len(submissions))
		for _, submission := range submissions {
			talks = append(talks, dto.ToTalkSubmissionDTO(submission))
		}
		response["talks"] = talks
	}

	c.JSON(http.StatusOK, response)
}

// UpdateConference updates a conference. Ownership is enforced by
// RequireConferenceOwner; a validation failure leaves the conference
// untouched.
func (h *ConferenceHandler) UpdateConference(c *gin.Context) {
	conference, exists := middleware.GetConference(c)
	if !exists {
		apierrors.InternalError(c, "Conference not loaded")
		return
	}

	var req ConferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.conferenceService.UpdateConference(conference.ID, req.toInput())
	if err != nil {
		respondConferenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConferenceDTO(*updated, false))
}

// DeleteConference deletes a conference the current user authored.
func (h *ConferenceHandler) DeleteConference(c *gin.Context) {
	conference, exists := middleware.GetConference(c)
	if !exists {
		apierrors.InternalError(c, "Conference not loaded")
		return
	}

	userID, _ := middleware.GetUserID(c)
	if err := h.conferenceService.DeleteConference(conference.ID, userID); err != nil {
		respondConferenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conference deleted"})
}

// ToggleFavorite flips the current user's favorite. Refused silently
// when the conference is dismissed.
func (h *ConferenceHandler) ToggleFavorite(c *gin.Context) {
	h.toggle(c, h.engagementService.ToggleFavorite)
}

// ToggleDismissed flips the current user's dismissal. Refused silently
// when the conference is favorited.
func (h *ConferenceHandler) ToggleDismissed(c *gin.Context) {
	h.toggle(c, h.engagementService.ToggleDismissed)
}

func (h *ConferenceHandler) toggle(c *gin.Context, op func(conferenceID, userID uint64) error) {
	conferenceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid conference ID")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := op(conferenceID, userID); err != nil {
		respondConferenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

// ListPendingConferences lists the moderation queue (admin only).
func (h *ConferenceHandler) ListPendingConferences(c *gin.Context) {
	conferences, err := h.conferenceService.ListPendingConferences()
	if err != nil {
		apierrors.InternalError(c, "Failed to list pending conferences")
		return
	}

	items := make([]dto.ConferenceListItemDTO, 0, len(conferences))
	for _, conference := range conferences {
		items = append(items, dto.ToConferenceListItemDTO(conference))
	}

	c.JSON(http.StatusOK, gin.H{"conferences": items})
}

// ApproveConference stamps a conference as approved (admin only).
func (h *ConferenceHandler) ApproveConference(c *gin.Context) {
	h.moderate(c, h.conferenceService.ApproveConference)
}

// RejectConference hides a conference from non-admin viewers (admin only).
func (h *ConferenceHandler) RejectConference(c *gin.Context) {
	h.moderate(c, h.conferenceService.RejectConference)
}

// RestoreConference clears a rejection (admin only).
func (h *ConferenceHandler) RestoreConference(c *gin.Context) {
	h.moderate(c, h.conferenceService.RestoreConference)
}

func (h *ConferenceHandler) moderate(c *gin.Context, op func(uint64) error) {
	conferenceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid conference ID")
		return
	}

	if err := op(conferenceID); err != nil {
		respondConferenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

func respondConferenceError(c *gin.Context, err error) {
	var fieldErr *services.FieldError
	switch {
	case errors.As(err, &fieldErr):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{
			fieldErr.Field: fieldErr.Err.Error(),
		})
	case errors.Is(err, services.ErrConferenceNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotConferenceAuthor):
		c.Redirect(http.StatusFound, "/")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
