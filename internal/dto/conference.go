package dto

import (
	"time"

	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/utils"
)

// SpeakerPackageDTO represents a speaker package in API responses
type SpeakerPackageDTO struct {
	Currency string   `json:"currency"`
	Travel   *float64 `json:"travel,omitempty"`
	Food     *float64 `json:"food,omitempty"`
	Hotel    *float64 `json:"hotel,omitempty"`
}

// ConferenceDTO represents a conference in API responses
type ConferenceDTO struct {
	ID                uint64             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	URL               string             `json:"url"`
	Location          string             `json:"location"`
	Latitude          *string            `json:"latitude,omitempty"`
	Longitude         *string            `json:"longitude,omitempty"`
	StartsAt          *time.Time         `json:"starts_at"`
	EndsAt            *time.Time         `json:"ends_at"`
	HasCfp            bool               `json:"has_cfp"`
	CfpStartsAt       *time.Time         `json:"cfp_starts_at"`
	CfpEndsAt         *time.Time         `json:"cfp_ends_at"`
	EventDatesDisplay *string            `json:"event_dates_display"`
	IsFlagged         bool               `json:"is_flagged"`
	IsRejected        bool               `json:"is_rejected,omitempty"`
	SpeakerPackage    *SpeakerPackageDTO `json:"speaker_package,omitempty"`
	Author            *UserDTO           `json:"author,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// ConferenceListItemDTO represents a conference in list responses
type ConferenceListItemDTO struct {
	ID                uint64     `json:"id"`
	Title             string     `json:"title"`
	Location          string     `json:"location"`
	URL               string     `json:"url"`
	StartsAt          *time.Time `json:"starts_at"`
	EndsAt            *time.Time `json:"ends_at"`
	HasCfp            bool       `json:"has_cfp"`
	CfpStartsAt       *time.Time `json:"cfp_starts_at"`
	CfpEndsAt         *time.Time `json:"cfp_ends_at"`
	EventDatesDisplay *string    `json:"event_dates_display"`
	IsFlagged         bool       `json:"is_flagged"`
}

// ConferenceListResponse represents one page of the conference listing
type ConferenceListResponse struct {
	Conferences []ConferenceListItemDTO  `json:"conferences"`
	Year        int                      `json:"year,omitempty"`
	Month       int                      `json:"month,omitempty"`
	Pagination  utils.PaginationResponse `json:"pagination"`
}

// TalkSubmissionDTO represents the viewer's talk submission state on a
// conference page
type TalkSubmissionDTO struct {
	TalkID   uint64 `json:"talk_id"`
	Title    string `json:"title"`
	Accepted bool   `json:"accepted"`
	Rejected bool   `json:"rejected"`
}

// IssueDTO represents a conference issue in API responses
type IssueDTO struct {
	ID           uint64     `json:"id"`
	ConferenceID uint64     `json:"conference_id"`
	Reason       string     `json:"reason"`
	Description  string     `json:"description"`
	AdminNote    string     `json:"admin_note,omitempty"`
	ClosedAt     *time.Time `json:"closed_at"`
	ClosedBy     *uint64    `json:"closed_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Conversion functions

// ToConferenceDTO converts a Conference model to ConferenceDTO. The
// speaker package is included only when visible; the rejected flag is
// included only for admins.
func ToConferenceDTO(conference models.Conference, viewerIsAdmin bool) ConferenceDTO {
	dto := ConferenceDTO{
		ID:                conference.ID,
		Title:             conference.Title,
		Description:       conference.Description,
		URL:               conference.URL,
		Location:          conference.Location,
		Latitude:          conference.Latitude,
		Longitude:         conference.Longitude,
		StartsAt:          conference.StartsAt,
		EndsAt:            conference.EndsAt,
		HasCfp:            conference.HasCfp,
		CfpStartsAt:       conference.CfpStartsAt,
		CfpEndsAt:         conference.CfpEndsAt,
		EventDatesDisplay: conference.EventDatesDisplay(),
		IsFlagged:         conference.IsFlagged(),
		CreatedAt:         conference.CreatedAt,
	}

	if viewerIsAdmin {
		dto.IsRejected = conference.IsRejected()
	}

	if conference.SpeakerPackage.IsVisible() {
		pkg := conference.SpeakerPackage
		dto.SpeakerPackage = &SpeakerPackageDTO{
			Currency: pkg.Currency,
			Travel:   pkg.Travel,
			Food:     pkg.Food,
			Hotel:    pkg.Hotel,
		}
	}

	if conference.Author.ID != 0 {
		author := ToSpeakerDTO(conference.Author)
		dto.Author = &author
	}

	return dto
}

// ToConferenceListItemDTO converts a Conference to its list shape
func ToConferenceListItemDTO(conference models.Conference) ConferenceListItemDTO {
	return ConferenceListItemDTO{
		ID:                conference.ID,
		Title:             conference.Title,
		Location:          conference.Location,
		URL:               conference.URL,
		StartsAt:          conference.StartsAt,
		EndsAt:            conference.EndsAt,
		HasCfp:            conference.HasCfp,
		CfpStartsAt:       conference.CfpStartsAt,
		CfpEndsAt:         conference.CfpEndsAt,
		EventDatesDisplay: conference.EventDatesDisplay(),
		IsFlagged:         conference.IsFlagged(),
	}
}

// ToTalkSubmissionDTO converts a Submission to the talk flags shown on
// a conference page
func ToTalkSubmissionDTO(submission models.Submission) TalkSubmissionDTO {
	return TalkSubmissionDTO{
		TalkID:   submission.TalkID,
		Title:    submission.Talk.Title,
		Accepted: submission.IsAccepted(),
		Rejected: submission.IsRejected(),
	}
}

// ToIssueDTO converts a ConferenceIssue to IssueDTO
func ToIssueDTO(issue models.ConferenceIssue) IssueDTO {
	return IssueDTO{
		ID:           issue.ID,
		ConferenceID: issue.ConferenceID,
		Reason:       issue.Reason,
		Description:  issue.Description,
		AdminNote:    issue.AdminNote,
		ClosedAt:     issue.ClosedAt,
		ClosedBy:     issue.ClosedBy,
		CreatedAt:    issue.CreatedAt,
	}
}
