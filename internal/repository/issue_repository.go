package repository

import (
	"time"

	"github.com/confhub/conference-api/internal/models"
	"gorm.io/gorm"
)

// GormIssueRepository is a GORM implementation of IssueRepository
type GormIssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &GormIssueRepository{db: db}
}

// Create creates a new issue
func (r *GormIssueRepository) Create(issue *models.ConferenceIssue) error {
	return r.db.Create(issue).Error
}

// FindByID finds an issue by ID
func (r *GormIssueRepository) FindByID(id uint64) (*models.ConferenceIssue, error) {
	var issue models.ConferenceIssue
	if err := r.db.Preload("Conference").Preload("Reporter").First(&issue, id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListOpen lists all open issues, most recent first
func (r *GormIssueRepository) ListOpen() ([]models.ConferenceIssue, error) {
	var issues []models.ConferenceIssue
	err := r.db.Where("closed_at IS NULL").
		Preload("Conference").
		Preload("Reporter").
		Order("created_at DESC").
		Find(&issues).Error
	return issues, err
}

// Close stamps closed_at, closed_by and the admin note in one update
func (r *GormIssueRepository) Close(issue *models.ConferenceIssue, actorID uint64, note string, at time.Time) error {
	err := r.db.Model(issue).Updates(map[string]interface{}{
		"closed_at":  at,
		"closed_by":  actorID,
		"admin_note": note,
	}).Error
	if err != nil {
		return err
	}

	issue.ClosedAt = &at
	issue.ClosedBy = &actorID
	issue.AdminNote = note
	return nil
}

// CountOpen counts open issues for a conference
func (r *GormIssueRepository) CountOpen(conferenceID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ConferenceIssue{}).
		Where("conference_id = ? AND closed_at IS NULL", conferenceID).
		Count(&count).Error
	return count, err
}
