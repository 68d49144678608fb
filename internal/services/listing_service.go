package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/confhub/conference-api/internal/models"
	"github.com/confhub/conference-api/internal/repository"
)

var (
	ErrUnknownFilter    = errors.New("unknown conference filter")
	ErrUnknownSort      = errors.New("unknown conference sort")
	ErrUnknownDirection = errors.New("unknown navigation direction")
)

// Navigation directions for the month window.
const (
	DirectionNext     = "next"
	DirectionPrevious = "previous"
)

// ListingService is the conference discovery engine: it maps a named
// filter, sort key, month window and viewer identity onto the
// repository query that decides what that viewer sees.
type ListingService struct {
	confRepo repository.ConferenceRepository
	now      func() time.Time
}

// NewListingService creates a new ListingService
func NewListingService(confRepo repository.ConferenceRepository) *ListingService {
	return &ListingService{
		confRepo: confRepo,
		now:      time.Now,
	}
}

// SetClock overrides the service clock (used for testing)
func (s *ListingService) SetClock(now func() time.Time) {
	s.now = now
}

// ListConferencesInput represents the listing parameters as they
// arrive from the request layer. Empty Filter/Sort fall back to
// "all"/"date". Year/Month of zero means no month window unless a
// Direction is given, in which case navigation starts from the
// current month.
type ListConferencesInput struct {
	Filter        string
	Sort          string
	Direction     string
	Year          int
	Month         time.Month
	ViewerID      uint64
	ViewerIsAdmin bool
	Page          int
	PageSize      int
}

// ConferencePage is one window of the listing.
type ConferencePage struct {
	Conferences []models.Conference
	Total       int64
	// Year/Month echo the active month window; zero when the listing
	// is unwindowed.
	Year  int
	Month time.Month
}

// ListConferences resolves the filter, sort and month window and runs
// the listing query.
func (s *ListingService) ListConferences(input ListConferencesInput) (*ConferencePage, error) {
	filter := repository.ListFilter(input.Filter)
	if input.Filter == "" {
		filter = repository.FilterAll
	}
	if !filter.Valid() {
		return nil, ErrUnknownFilter
	}

	sort := repository.ListSort(input.Sort)
	if input.Sort == "" {
		sort = repository.SortDate
	}
	if !sort.Valid() {
		return nil, ErrUnknownSort
	}

	// The dismissed and favorites filters are personal; an anonymous
	// viewer has nothing to show.
	if filter == repository.FilterDismissed || filter == repository.FilterFavorites {
		if input.ViewerID == 0 {
			return &ConferencePage{Conferences: []models.Conference{}}, nil
		}
	}

	now := s.now()

	year, month, err := s.resolveMonth(input, now)
	if err != nil {
		return nil, err
	}

	conferences, total, err := s.confRepo.List(repository.ConferenceFilter{
		Filter:        filter,
		Sort:          sort,
		Year:          year,
		Month:         month,
		ViewerID:      input.ViewerID,
		ViewerIsAdmin: input.ViewerIsAdmin,
		Now:           now,
		Page:          input.Page,
		PageSize:      input.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conferences: %w", err)
	}

	return &ConferencePage{
		Conferences: conferences,
		Total:       total,
		Year:        year,
		Month:       month,
	}, nil
}

// resolveMonth turns the incoming month reference and direction into
// the effective window. The window only moves; the underlying set is
// untouched.
func (s *ListingService) resolveMonth(input ListConferencesInput, now time.Time) (int, time.Month, error) {
	year, month := input.Year, input.Month

	if input.Direction == "" {
		return year, month, nil
	}

	// Navigation without a reference starts from the current month.
	if year == 0 {
		year, month = now.Year(), now.Month()
	}

	reference := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	switch input.Direction {
	case DirectionNext:
		reference = reference.AddDate(0, 1, 0)
	case DirectionPrevious:
		reference = reference.AddDate(0, -1, 0)
	default:
		return 0, 0, ErrUnknownDirection
	}

	return reference.Year(), reference.Month(), nil
}
