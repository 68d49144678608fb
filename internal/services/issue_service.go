package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/notifications"
	"github.com/confhub/conference-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrIssueNotFound      = errors.New("issue not found")
	ErrIssueReasonMissing = errors.New("a reason is required")
	ErrIssueAlreadyClosed = errors.New("issue is already closed")
)

// IssueService handles reporting and resolving conference issues
type IssueService struct {
	issueRepo repository.IssueRepository
	confRepo  repository.ConferenceRepository
	publisher notifications.Publisher
	now       func() time.Time
}

// NewIssueService creates a new IssueService. The publisher may be nil
// when notification dispatch is disabled.
func NewIssueService(issueRepo repository.IssueRepository, confRepo repository.ConferenceRepository, publisher notifications.Publisher) *IssueService {
	return &IssueService{
		issueRepo: issueRepo,
		confRepo:  confRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

// SetClock overrides the service clock (used for testing)
func (s *IssueService) SetClock(now func() time.Time) {
	s.now = now
}

// ReportIssueInput represents input for reporting an issue
type ReportIssueInput struct {
	ConferenceID uint64
	ReporterID   uint64
	Reason       string
	Description  string
}

// ReportIssue opens an issue against a conference and dispatches a
// notification. Dispatch is fire-and-forget: a publish failure is
// logged and never surfaced to the reporter.
func (s *IssueService) ReportIssue(input ReportIssueInput) (*models.ConferenceIssue, error) {
	if input.Reason == "" {
		return nil, ErrIssueReasonMissing
	}

	conference, err := s.confRepo.FindByID(input.ConferenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConferenceNotFound
		}
		return nil, fmt.Errorf("failed to find conference: %w", err)
	}

	issue := &models.ConferenceIssue{
		ConferenceID: input.ConferenceID,
		UserID:       input.ReporterID,
		Reason:       input.Reason,
		Description:  input.Description,
	}

	if err := s.issueRepo.Create(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	if s.publisher != nil {
		msg := notifications.IssueReported{
			IssueID:         issue.ID,
			ConferenceID:    conference.ID,
			ConferenceTitle: conference.Title,
			Reason:          issue.Reason,
			Description:     issue.Description,
		}
		if err := s.publisher.PublishIssueReported(msg); err != nil {
			log.Printf("Failed to publish issue notification: %v", err)
		}
	}

	return issue, nil
}

// ListOpenIssues lists all open issues for the admin view
func (s *IssueService) ListOpenIssues() ([]models.ConferenceIssue, error) {
	issues, err := s.issueRepo.ListOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to list open issues: %w", err)
	}
	return issues, nil
}

// CloseIssue closes an open issue, stamping who closed it and why in
// a single update.
func (s *IssueService) CloseIssue(issueID, actorID uint64, note string) (*models.ConferenceIssue, error) {
	issue, err := s.issueRepo.FindByID(issueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	if !issue.IsOpen() {
		return nil, ErrIssueAlreadyClosed
	}

	if err := s.issueRepo.Close(issue, actorID, note, s.now()); err != nil {
		return nil, fmt.Errorf("failed to close issue: %w", err)
	}

	return issue, nil
}

// RefreshFlag recomputes the conference's open-issue count. Callers
// mutating issues are responsible for invoking this; the count never
// refreshes on its own.
func (s *IssueService) RefreshFlag(conference *models.Conference) error {
	if err := s.confRepo.LoadOpenIssuesCount(conference); err != nil {
		return fmt.Errorf("failed to refresh flag: %w", err)
	}
	return nil
}
