package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/confhub/conference-api/internal/dto"
	apierrors "github.com/confhub/conference-api/internal/errors"
	"github.com/confhub/conference-api/internal/middleware"
	"github.com/confhub/conference-api/internal/services"
	"github.com/gin-gonic/gin"
)

// IssueHandler coordinates conference-issue HTTP handlers.
type IssueHandler struct {
	issueService *services.IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issueService *services.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// ReportIssue opens an issue against a conference.
func (h *IssueHandler) ReportIssue(c *gin.Context) {
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

	type ReportRequest struct {
		Reason      string `json:"reason" binding:"required,max=100"`
		Description string `json:"description"`
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.ReportIssue(services.ReportIssueInput{
		ConferenceID: conferenceID,
		ReporterID:   userID,
		Reason:       req.Reason,
		Description:  req.Description,
	})
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIssueDTO(*issue))
}

// ListOpenIssues lists all open issues (admin only).
func (h *IssueHandler) ListOpenIssues(c *gin.Context) {
	issues, err := h.issueService.ListOpenIssues()
	if err != nil {
		apierrors.InternalError(c, "Failed to list issues")
		return
	}

	items := make([]dto.IssueDTO, 0, len(issues))
	for _, issue := range issues {
		items = append(items, dto.ToIssueDTO(issue))
	}

	c.JSON(http.StatusOK, gin.H{"issues": items})
}

// CloseIssue closes an open issue with a note (admin only).
func (h *IssueHandler) CloseIssue(c *gin.Context) {
	issueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid issue ID")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CloseRequest struct {
		Note string `json:"note"`
	}

	var req CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	issue, err := h.issueService.CloseIssue(issueID, userID, req.Note)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

func respondIssueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIssueReasonMissing):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrIssueAlreadyClosed):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrIssueNotFound),
		errors.Is(err, services.ErrConferenceNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
