package repository

import (
	"time"

	"github.com/confhub/conference-api/internal/database"
	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/utils"
	"gorm.io/gorm"
)

// GormConferenceRepository is a GORM implementation of ConferenceRepository
type GormConferenceRepository struct {
	db *gorm.DB
}

// NewConferenceRepository creates a new ConferenceRepository
func NewConferenceRepository(db *gorm.DB) ConferenceRepository {
	return &GormConferenceRepository{db: db}
}

// Create creates a new conference
func (r *GormConferenceRepository) Create(conference *models.Conference) error {
	return r.db.Create(conference).Error
}

// FindByID finds a conference by ID with optional preloading
func (r *GormConferenceRepository) FindByID(id uint64, preload ...string) (*models.Conference, error) {
	var conference models.Conference
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&conference, id).Error; err != nil {
		return nil, err
	}

	return &conference, nil
}

// List retrieves conferences with filtering, sorting and pagination.
// Rejected conferences are excluded for non-admin viewers regardless
// of the requested filter; conferences the viewer dismissed are hidden
// from everything but the dismissed filter.
func (r *GormConferenceRepository) List(filter ConferenceFilter) ([]models.Conference, int64, error) {
	var conferences []models.Conference

	query := r.db.Model(&models.Conference{}).Scopes(Approved())

	if !filter.ViewerIsAdmin {
		query = query.Scopes(NotRejected())
	}
	if filter.ViewerID != 0 && filter.Filter != FilterDismissed {
		query = query.Scopes(NotDismissedBy(filter.ViewerID))
	}

	switch filter.Filter {
	case FilterFuture:
		// Future applies to whichever date column the active sort
		// orders by.
		startOfToday := startOfDay(filter.Now)
		query = query.Where("conferences."+filter.Sort.DateColumn()+" >= ?", startOfToday)
	case FilterOpenCfp:
		query = query.Scopes(CfpIsOpen(filter.Now), EventEndsAfter(filter.Now))
	case FilterFutureCfp:
		query = query.Scopes(CfpIsFuture(filter.Now))
	case FilterUnclosedCfp:
		query = query.Scopes(CfpIsUnclosed(filter.Now))
	case FilterDismissed:
		query = query.Scopes(DismissedBy(filter.ViewerID))
	case FilterFavorites:
		query = query.Scopes(FavoritedBy(filter.ViewerID))
	}

	// The sort drops rows missing its date column; they are omitted,
	// never pushed to either end.
	switch filter.Sort {
	case SortCfpOpeningNext:
		query = query.Scopes(HasCfpStart())
	case SortCfpClosingNext:
		query = query.Scopes(HasCfpEnd())
	default:
		query = query.Scopes(HasEventStart())
	}

	if filter.Year != 0 {
		query = query.Scopes(DateDuring(filter.Year, filter.Month, filter.Sort.DateColumn()))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Secondary order by id keeps equal dates deterministic.
	listQuery := query.Order("conferences." + filter.Sort.DateColumn() + " ASC").
		Order("conferences.id ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Author").Find(&conferences).Error; err != nil {
		return nil, 0, err
	}

	return conferences, total, nil
}

// Search finds searchable conferences matching the query against title
// and location. Rejected and past conferences never match.
func (r *GormConferenceRepository) Search(query string, now time.Time) ([]models.Conference, error) {
	var conferences []models.Conference
	pattern := "%" + query + "%"
	err := r.db.Model(&models.Conference{}).
		Scopes(NotRejected(), EventEndsAfter(now)).
		Where("conferences.title LIKE ? OR conferences.location LIKE ?", pattern, pattern).
		Order("conferences.starts_at ASC").
		Find(&conferences).Error
	if err != nil {
		return nil, err
	}
	return conferences, nil
}

// Update updates a conference
func (r *GormConferenceRepository) Update(conference *models.Conference) error {
	return r.db.Save(conference).Error
}

// Delete soft deletes a conference and its engagement rows
func (r *GormConferenceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conference_id = ?", id).Delete(&models.ConferenceFavorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conference_id = ?", id).Delete(&models.ConferenceDismissal{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Conference{}, id).Error
	})
}

// Approve stamps approved_at
func (r *GormConferenceRepository) Approve(id uint64, at time.Time) error {
	return r.db.Model(&models.Conference{}).Where("id = ?", id).
		Update("approved_at", at).Error
}

// Reject stamps rejected_at
func (r *GormConferenceRepository) Reject(id uint64, at time.Time) error {
	return r.db.Model(&models.Conference{}).Where("id = ?", id).
		Update("rejected_at", at).Error
}

// Restore clears rejected_at
func (r *GormConferenceRepository) Restore(id uint64) error {
	return r.db.Model(&models.Conference{}).Where("id = ?", id).
		Update("rejected_at", nil).Error
}

// LoadOpenIssuesCount refreshes the conference's open-issue count
func (r *GormConferenceRepository) LoadOpenIssuesCount(conference *models.Conference) error {
	var count int64
	err := r.db.Model(&models.ConferenceIssue{}).
		Where("conference_id = ? AND closed_at IS NULL", conference.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	conference.OpenIssuesCount = count
	return nil
}

// IsFavoritedBy reports whether the user favorited the conference
func (r *GormConferenceRepository) IsFavoritedBy(conferenceID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ConferenceFavorite{}).
		Where("conference_id = ? AND user_id = ?", conferenceID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsDismissedBy reports whether the user dismissed the conference
func (r *GormConferenceRepository) IsDismissedBy(conferenceID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ConferenceDismissal{}).
		Where("conference_id = ? AND user_id = ?", conferenceID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddFavorite records a favorite
func (r *GormConferenceRepository) AddFavorite(conferenceID, userID uint64) error {
	return r.db.Create(&models.ConferenceFavorite{
		ConferenceID: conferenceID,
		UserID:       userID,
	}).Error
}

// RemoveFavorite removes a favorite
func (r *GormConferenceRepository) RemoveFavorite(conferenceID, userID uint64) error {
	return r.db.Where("conference_id = ? AND user_id = ?", conferenceID, userID).
		Delete(&models.ConferenceFavorite{}).Error
}

// AddDismissal records a dismissal
func (r *GormConferenceRepository) AddDismissal(conferenceID, userID uint64) error {
	return r.db.Create(&models.ConferenceDismissal{
		ConferenceID: conferenceID,
		UserID:       userID,
	}).Error
}

// RemoveDismissal removes a dismissal
func (r *GormConferenceRepository) RemoveDismissal(conferenceID, userID uint64) error {
	return r.db.Where("conference_id = ? AND user_id = ?", conferenceID, userID).
		Delete(&models.ConferenceDismissal{}).Error
}

// ListFavoritedBy lists conferences the user has favorited
func (r *GormConferenceRepository) ListFavoritedBy(userID uint64) ([]models.Conference, error) {
	var conferences []models.Conference
	err := r.db.Model(&models.Conference{}).
		Scopes(FavoritedBy(userID)).
		Order("conferences.starts_at ASC").
		Find(&conferences).Error
	return conferences, err
}

// ListUnsharedBy lists the user's authored conferences not yet shared
func (r *GormConferenceRepository) ListUnsharedBy(userID uint64) ([]models.Conference, error) {
	var conferences []models.Conference
	err := r.db.Model(&models.Conference{}).
		Scopes(NotShared()).
		Where("conferences.author_id = ?", userID).
		Find(&conferences).Error
	return conferences, err
}

// ListFeatured lists featured conferences with event dates recorded
func (r *GormConferenceRepository) ListFeatured() ([]models.Conference, error) {
	var conferences []models.Conference
	err := r.db.Model(&models.Conference{}).
		Scopes(Approved(), NotRejected(), HasDates()).
		Where("conferences.featured = ?", true).
		Order("conferences.starts_at ASC").
		Find(&conferences).Error
	return conferences, err
}

// ListPendingApproval lists unmoderated conferences for the admin queue
func (r *GormConferenceRepository) ListPendingApproval() ([]models.Conference, error) {
	var conferences []models.Conference
	err := r.db.Model(&models.Conference{}).
		Scopes(NotApproved(), NotRejected()).
		Order("conferences.created_at ASC").
		Preload("Author").
		Find(&conferences).Error
	return conferences, err
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
