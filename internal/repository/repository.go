package repository

import (
	"time"

	"github.com/confhub/conference-api/internal/models"
)

// ListFilter names a conference list filter.
type ListFilter string

const (
	FilterAll         ListFilter = "all"
	FilterFuture      ListFilter = "future"
	FilterOpenCfp     ListFilter = "open_cfp"
	FilterFutureCfp   ListFilter = "future_cfp"
	FilterUnclosedCfp ListFilter = "unclosed_cfp"
	FilterDismissed   ListFilter = "dismissed"
	FilterFavorites   ListFilter = "favorites"
)

// Valid reports whether the filter is one of the known names.
func (f ListFilter) Valid() bool {
	switch f {
	case FilterAll, FilterFuture, FilterOpenCfp, FilterFutureCfp,
		FilterUnclosedCfp, FilterDismissed, FilterFavorites:
		return true
	}
	return false
}

// ListSort names a conference list ordering.
type ListSort string

const (
	SortDate           ListSort = "date"
	SortCfpOpeningNext ListSort = "cfp_opening_next"
	SortCfpClosingNext ListSort = "cfp_closing_next"
)

func (s ListSort) Valid() bool {
	switch s {
	case SortDate, SortCfpOpeningNext, SortCfpClosingNext:
		return true
	}
	return false
}

// DateColumn returns the conference date column the sort orders by.
// The same column receives the future filter and the month window.
func (s ListSort) DateColumn() string {
	switch s {
	case SortCfpOpeningNext:
		return "cfp_starts_at"
	case SortCfpClosingNext:
		return "cfp_ends_at"
	default:
		return "starts_at"
	}
}

// ConferenceFilter holds the query options for listing conferences.
// Year/Month of zero means no month window. ViewerID of zero means an
// anonymous viewer.
type ConferenceFilter struct {
	Filter        ListFilter
	Sort          ListSort
	Year          int
	Month         time.Month
	ViewerID      uint64
	ViewerIsAdmin bool
	Now           time.Time
	Page          int
	PageSize      int
}

// ConferenceRepository defines the interface for conference data access
type ConferenceRepository interface {
	// Create creates a new conference
	Create(conference *models.Conference) error

	// FindByID finds a conference by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Conference, error)

	// List retrieves conferences with filtering, sorting and pagination
	List(filter ConferenceFilter) ([]models.Conference, int64, error)

	// Search finds searchable conferences matching the query against
	// title and location
	Search(query string, now time.Time) ([]models.Conference, error)

	// Update updates a conference
	Update(conference *models.Conference) error

	// Delete soft deletes a conference
	Delete(id uint64) error

	// Approve stamps approved_at
	Approve(id uint64, at time.Time) error

	// Reject stamps rejected_at
	Reject(id uint64, at time.Time) error

	// Restore clears rejected_at
	Restore(id uint64) error

	// LoadOpenIssuesCount refreshes the conference's open-issue count.
	// Must be called after any issue mutation; the count is never
	// refreshed implicitly.
	LoadOpenIssuesCount(conference *models.Conference) error

	// IsFavoritedBy reports whether the user favorited the conference
	IsFavoritedBy(conferenceID, userID uint64) (bool, error)

	// IsDismissedBy reports whether the user dismissed the conference
	IsDismissedBy(conferenceID, userID uint64) (bool, error)

	// AddFavorite / RemoveFavorite flip the favorite association
	AddFavorite(conferenceID, userID uint64) error
	RemoveFavorite(conferenceID, userID uint64) error

	// AddDismissal / RemoveDismissal flip the dismissal association
	AddDismissal(conferenceID, userID uint64) error
	RemoveDismissal(conferenceID, userID uint64) error

	// ListFavoritedBy lists conferences the user has favorited
	ListFavoritedBy(userID uint64) ([]models.Conference, error)

	// ListUnsharedBy lists the user's authored conferences not yet shared
	ListUnsharedBy(userID uint64) ([]models.Conference, error)

	// ListFeatured lists featured conferences
	ListFeatured() ([]models.Conference, error)

	// ListPendingApproval lists conferences awaiting moderation,
	// oldest first
	ListPendingApproval() ([]models.Conference, error)
}

// IssueRepository defines the interface for conference issue data access
type IssueRepository interface {
	// Create creates a new issue
	Create(issue *models.ConferenceIssue) error

	// FindByID finds an issue by ID
	FindByID(id uint64) (*models.ConferenceIssue, error)

	// ListOpen lists all open issues, most recent first
	ListOpen() ([]models.ConferenceIssue, error)

	// Close stamps closed_at, closed_by and the admin note in a single
	// update. Guarding against double-closing is the caller's job.
	Close(issue *models.ConferenceIssue, actorID uint64, note string, at time.Time) error

	// CountOpen counts open issues for a conference
	CountOpen(conferenceID uint64) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindSocial finds a social identity by service and provider id
	FindSocial(service, socialID string) (*models.UserSocial, error)

	// CreateSocial records a new social identity for a user
	CreateSocial(social *models.UserSocial) error

	// ListFeatured lists featured speakers
	ListFeatured() ([]models.User, error)
}

// TalkRepository defines the interface for talk and submission data access
type TalkRepository interface {
	// Create creates a new talk
	Create(talk *models.Talk) error

	// ListByUser lists a user's talks
	ListByUser(userID uint64) ([]models.Talk, error)

	// ListSubmissionsForConference lists a user's submissions to a
	// conference, with talks preloaded
	ListSubmissionsForConference(userID, conferenceID uint64) ([]models.Submission, error)

	// ListSubmissionsByUser lists all of a user's submissions, with
	// talks and conferences preloaded
	ListSubmissionsByUser(userID uint64) ([]models.Submission, error)
}
