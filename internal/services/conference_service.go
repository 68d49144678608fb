package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrConferenceNotFound   = errors.New("conference not found")
	ErrConferenceTitleEmpty = errors.New("title is required")
	ErrEndsBeforeStarts     = errors.New("ends_at must not precede starts_at")
	ErrCfpEndsBeforeStarts  = errors.New("cfp_ends_at must not precede cfp_starts_at")
	ErrNotConferenceAuthor  = errors.New("only the conference author can perform this action")
)

// FieldError carries a validation failure pinned to a single field.
// No partial update happens when one is returned.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ConferenceService handles conference CRUD and moderation
type ConferenceService struct {
	confRepo repository.ConferenceRepository
	now      func() time.Time
}

// NewConferenceService creates a new ConferenceService
func NewConferenceService(confRepo repository.ConferenceRepository) *ConferenceService {
	return &ConferenceService{
		confRepo: confRepo,
		now:      time.Now,
	}
}

// SetClock overrides the service clock (used for testing)
func (s *ConferenceService) SetClock(now func() time.Time) {
	s.now = now
}

// ConferenceInput represents input for creating or updating a conference
type ConferenceInput struct {
	Title          string
	Description    string
	URL            string
	Location       string
	Latitude       *string
	Longitude      *string
	StartsAt       *time.Time
	EndsAt         *time.Time
	HasCfp         *bool
	CfpStartsAt    *time.Time
	CfpEndsAt      *time.Time
	SpeakerPackage *models.SpeakerPackage
}

func validateDates(input ConferenceInput) error {
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return &FieldError{Field: "ends_at", Err: ErrEndsBeforeStarts}
	}
	if input.CfpStartsAt != nil && input.CfpEndsAt != nil && input.CfpEndsAt.Before(*input.CfpStartsAt) {
		return &FieldError{Field: "cfp_ends_at", Err: ErrCfpEndsBeforeStarts}
	}
	return nil
}

// CreateConference creates a new, unapproved conference authored by
// the given user.
func (s *ConferenceService) CreateConference(authorID uint64, input ConferenceInput) (*models.Conference, error) {
	if input.Title == "" {
		return nil, &FieldError{Field: "title", Err: ErrConferenceTitleEmpty}
	}
	if err := validateDates(input); err != nil {
		return nil, err
	}

	conference := &models.Conference{
		Title:       input.Title,
		Description: input.Description,
		URL:         input.URL,
		Location:    input.Location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		HasCfp:      true,
		CfpStartsAt: input.CfpStartsAt,
		CfpEndsAt:   input.CfpEndsAt,
		AuthorID:    authorID,
	}
	if input.HasCfp != nil {
		conference.HasCfp = *input.HasCfp
	}
	if input.SpeakerPackage != nil {
		conference.SpeakerPackage = *input.SpeakerPackage
	}

	if err := s.confRepo.Create(conference); err != nil {
		return nil, fmt.Errorf("failed to create conference: %w", err)
	}

	return conference, nil
}

// GetConference returns a conference. Rejected conferences are only
// visible to admins.
func (s *ConferenceService) GetConference(id uint64, viewerIsAdmin bool) (*models.Conference, error) {
	conference, err := s.confRepo.FindByID(id, "Author")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConferenceNotFound
		}
		return nil, fmt.Errorf("failed to find conference: %w", err)
	}

	if conference.IsRejected() && !viewerIsAdmin {
		return nil, ErrConferenceNotFound
	}

	if err := s.confRepo.LoadOpenIssuesCount(conference); err != nil {
		return nil, fmt.Errorf("failed to load open issue count: %w", err)
	}

	return conference, nil
}

// UpdateConference updates an existing conference. Ownership is
// enforced at the middleware layer; validation failures leave the row
// untouched.
func (s *ConferenceService) UpdateConference(id uint64, input ConferenceInput) (*models.Conference, error) {
	conference, err := s.confRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConferenceNotFound
		}
		return nil, fmt.Errorf("failed to find conference: %w", err)
	}

	if input.Title == "" {
		return nil, &FieldError{Field: "title", Err: ErrConferenceTitleEmpty}
	}

	// Validate against the effective dates after the update.
	effective := input
	if effective.StartsAt == nil {
		effective.StartsAt = conference.StartsAt
	}
	if effective.EndsAt == nil {
		effective.EndsAt = conference.EndsAt
	}
	if effective.CfpStartsAt == nil {
		effective.CfpStartsAt = conference.CfpStartsAt
	}
	if effective.CfpEndsAt == nil {
		effective.CfpEndsAt = conference.CfpEndsAt
	}
	if err := validateDates(effective); err != nil {
		return nil, err
	}

	conference.Title = input.Title
	conference.Description = input.Description
	conference.URL = input.URL
	conference.Location = input.Location
	if input.Latitude != nil {
		conference.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		conference.Longitude = input.Longitude
	}
	if input.StartsAt != nil {
		conference.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		conference.EndsAt = input.EndsAt
	}
	if input.HasCfp != nil {
		conference.HasCfp = *input.HasCfp
	}
	if input.CfpStartsAt != nil {
		conference.CfpStartsAt = input.CfpStartsAt
	}
	if input.CfpEndsAt != nil {
		conference.CfpEndsAt = input.CfpEndsAt
	}
	if input.SpeakerPackage != nil {
		conference.SpeakerPackage = *input.SpeakerPackage
	}

	if err := s.confRepo.Update(conference); err != nil {
		return nil, fmt.Errorf("failed to update conference: %w", err)
	}

	return conference, nil
}

// DeleteConference deletes a conference if the actor authored it
func (s *ConferenceService) DeleteConference(id, actorID uint64) error {
	conference, err := s.confRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConferenceNotFound
		}
		return fmt.Errorf("failed to find conference: %w", err)
	}

	if conference.AuthorID != actorID {
		return ErrNotConferenceAuthor
	}

	if err := s.confRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete conference: %w", err)
	}

	return nil
}

// ApproveConference stamps a conference as approved
func (s *ConferenceService) ApproveConference(id uint64) error {
	return s.moderate(id, func(conferenceID uint64) error {
		return s.confRepo.Approve(conferenceID, s.now())
	})
}

// RejectConference hides a conference from all non-admin viewers
func (s *ConferenceService) RejectConference(id uint64) error {
	return s.moderate(id, func(conferenceID uint64) error {
		return s.confRepo.Reject(conferenceID, s.now())
	})
}

// RestoreConference clears a rejection, round-tripping the conference
// back to its pre-rejection visibility.
func (s *ConferenceService) RestoreConference(id uint64) error {
	return s.moderate(id, s.confRepo.Restore)
}

func (s *ConferenceService) moderate(id uint64, op func(uint64) error) error {
	if _, err := s.confRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConferenceNotFound
		}
		return fmt.Errorf("failed to find conference: %w", err)
	}
	if err := op(id); err != nil {
		return fmt.Errorf("failed to update conference: %w", err)
	}
	return nil
}

// ListPendingConferences lists conferences awaiting moderation for the
// admin approval queue.
func (s *ConferenceService) ListPendingConferences() ([]models.Conference, error) {
	conferences, err := s.confRepo.ListPendingApproval()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending conferences: %w", err)
	}
	return conferences, nil
}

// SearchConferences runs a free-text search over title and location.
// Rejected and past conferences are never searchable.
func (s *ConferenceService) SearchConferences(query string) ([]models.Conference, error) {
	conferences, err := s.confRepo.Search(query, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to search conferences: %w", err)
	}
	return conferences, nil
}
