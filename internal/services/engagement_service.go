package services

import (
	"errors"
	"fmt"

	"github.com/confhub/conference-api/internal/repository"
	"gorm.io/gorm"
)

// EngagementService handles per-user favorite and dismissal toggles.
// Favoriting and dismissing are mutually exclusive per user per
// conference: toggling one while the other is set is a silent no-op,
// not an error.
type EngagementService struct {
	confRepo repository.ConferenceRepository
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(confRepo repository.ConferenceRepository) *EngagementService {
	return &EngagementService{confRepo: confRepo}
}

// ToggleFavorite flips the user's favorite on a conference. Refused
// without error when the conference is dismissed by the same user.
func (s *EngagementService) ToggleFavorite(conferenceID, userID uint64) error {
	if _, err := s.confRepo.FindByID(conferenceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConferenceNotFound
		}
		return fmt.Errorf("failed to find conference: %w", err)
	}

	dismissed, err := s.confRepo.IsDismissedBy(conferenceID, userID)
	if err != nil {
		return fmt.Errorf("failed to check dismissal: %w", err)
	}
	if dismissed {
		return nil
	}

	favorited, err := s.confRepo.IsFavoritedBy(conferenceID, userID)
	if err != nil {
		return fmt.Errorf("failed to check favorite: %w", err)
	}

	if favorited {
		err = s.confRepo.RemoveFavorite(conferenceID, userID)
	} else {
		err = s.confRepo.AddFavorite(conferenceID, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return nil
}

// ToggleDismissed flips the user's dismissal on a conference. Refused
// without error when the conference is favorited by the same user.
func (s *EngagementService) ToggleDismissed(conferenceID, userID uint64) error {
	if _, err := s.confRepo.FindByID(conferenceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConferenceNotFound
		}
		return fmt.Errorf("failed to find conference: %w", err)
	}

	favorited, err := s.confRepo.IsFavoritedBy(conferenceID, userID)
	if err != nil {
		return fmt.Errorf("failed to check favorite: %w", err)
	}
	if favorited {
		return nil
	}

	dismissed, err := s.confRepo.IsDismissedBy(conferenceID, userID)
	if err != nil {
		return fmt.Errorf("failed to check dismissal: %w", err)
	}

	if dismissed {
		err = s.confRepo.RemoveDismissal(conferenceID, userID)
	} else {
		err = s.confRepo.AddDismissal(conferenceID, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to toggle dismissal: %w", err)
	}
	return nil
}
