package repository

import (
	"github.com/confhub/conference-api/internal/models"
	"gorm.io/gorm"
)

// GormTalkRepository is a GORM implementation of TalkRepository
type GormTalkRepository struct {
	db *gorm.DB
}

// NewTalkRepository creates a new TalkRepository
func NewTalkRepository(db *gorm.DB) TalkRepository {
	return &GormTalkRepository{db: db}
}

// Create creates a new talk
func (r *GormTalkRepository) Create(talk *models.Talk) error {
	return r.db.Create(talk).Error
}

// ListByUser lists a user's talks
func (r *GormTalkRepository) ListByUser(userID uint64) ([]models.Talk, error) {
	var talks []models.Talk
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&talks).Error
	return talks, err
}

// ListSubmissionsForConference lists a user's submissions to a conference
func (r *GormTalkRepository) ListSubmissionsForConference(userID, conferenceID uint64) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.
		Joins("JOIN talks ON talks.id = submissions.talk_id").
		Where("talks.user_id = ? AND submissions.conference_id = ?", userID, conferenceID).
		Preload("Talk").
		Find(&submissions).Error
	return submissions, err
}

// ListSubmissionsByUser lists all of a user's submissions
func (r *GormTalkRepository) ListSubmissionsByUser(userID uint64) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.
		Joins("JOIN talks ON talks.id = submissions.talk_id").
		Where("talks.user_id = ?", userID).
		Preload("Talk").
		Preload("Conference").
		Find(&submissions).Error
	return submissions, err
}
