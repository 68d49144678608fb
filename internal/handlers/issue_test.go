package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/confhub/conference-api/internal/dto"
	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/repository"
	"github.com/confhub/conference-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type issueHandlerEnv struct {
	conferenceTestEnv
	handler   *IssueHandler
	issueRepo repository.IssueRepository
}

func setupIssueHandlerEnv(t *testing.T) issueHandlerEnv {
	t.Helper()

	env := setupConferenceTestEnv(t)
	issueRepo := repository.NewIssueRepository(env.db)

	issueService := services.NewIssueService(issueRepo, env.confRepo, nil)
	issueService.SetClock(func() time.Time { return testNow })

	return issueHandlerEnv{
		conferenceTestEnv: env,
		handler:           NewIssueHandler(issueService),
		issueRepo:         issueRepo,
	}
}

func TestIssueHandler_ReportIssue(t *testing.T) {
	env := setupIssueHandlerEnv(t)

	seedApprovedConference(t, env.conferenceTestEnv, "Troubled", 1)

	r := gin.New()
	r.POST("/api/conferences/:id/issues", actAs(7), env.handler.ReportIssue)

	payload := map[string]string{
		"reason":      "wrong dates",
		"description": "The event moved to October.",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/conferences/1/issues", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.IssueDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "wrong dates", response.Reason)
	require.Nil(t, response.ClosedAt)
}

func TestIssueHandler_ReportIssue_MissingReason(t *testing.T) {
	env := setupIssueHandlerEnv(t)

	seedApprovedConference(t, env.conferenceTestEnv, "Troubled", 1)

	r := gin.New()
	r.POST("/api/conferences/:id/issues", actAs(7), env.handler.ReportIssue)

	body, err := json.Marshal(map[string]string{"description": "no reason given"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/conferences/1/issues", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueHandler_CloseIssue(t *testing.T) {
	env := setupIssueHandlerEnv(t)

	conference := seedApprovedConference(t, env.conferenceTestEnv, "Troubled", 1)

	issue := models.ConferenceIssue{
		ConferenceID: conference.ID,
		UserID:       7,
		Reason:       "spam",
	}
	require.NoError(t, env.issueRepo.Create(&issue))

	r := gin.New()
	r.POST("/api/issues/:id/close", actAs(1), env.handler.CloseIssue)

	body, err := json.Marshal(map[string]string{"note": "checked, fine"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/issues/1/close", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.IssueDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.ClosedAt)
	require.Equal(t, "checked, fine", response.AdminNote)

	// Closing again conflicts.
	req = httptest.NewRequest(http.MethodPost, "/api/issues/1/close", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestIssueHandler_ListOpenIssues(t *testing.T) {
	env := setupIssueHandlerEnv(t)

	conference := seedApprovedConference(t, env.conferenceTestEnv, "Troubled", 1)

	open := models.ConferenceIssue{ConferenceID: conference.ID, UserID: 7, Reason: "spam"}
	require.NoError(t, env.issueRepo.Create(&open))

	closed := models.ConferenceIssue{ConferenceID: conference.ID, UserID: 8, Reason: "dupe"}
	require.NoError(t, env.issueRepo.Create(&closed))
	require.NoError(t, env.issueRepo.Close(&closed, 1, "handled", testNow))

	r := gin.New()
	r.GET("/api/issues", actAs(1), env.handler.ListOpenIssues)

	req := httptest.NewRequest(http.MethodGet, "/api/issues", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "spam")
	require.NotContains(t, w.Body.String(), "dupe")
}
