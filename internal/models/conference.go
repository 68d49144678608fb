package models

import (
	"time"

	"gorm.io/gorm"
)

type Conference struct {
	ID          uint64  `gorm:"primarykey" json:"id"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	URL         string  `gorm:"type:varchar(255)" json:"url"`
	Location    string  `gorm:"type:varchar(255)" json:"location"`
	Latitude    *string `gorm:"type:varchar(50)" json:"latitude"`
	Longitude   *string `gorm:"type:varchar(50)" json:"longitude"`

	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`

	HasCfp      bool       `gorm:"not null;default:true" json:"has_cfp"`
	CfpStartsAt *time.Time `json:"cfp_starts_at"`
	CfpEndsAt   *time.Time `json:"cfp_ends_at"`

	ApprovedAt *time.Time `json:"approved_at"`
	RejectedAt *time.Time `json:"rejected_at"`
	SharedAt   *time.Time `json:"shared_at"`
	Featured   bool       `gorm:"not null;default:false" json:"featured"`

	SpeakerPackage SpeakerPackage `gorm:"type:json" json:"speaker_package"`

	AuthorID  uint64         `gorm:"not null" json:"author_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// OpenIssuesCount is not a column. It is populated only by
	// ConferenceRepository.LoadOpenIssuesCount and must be refreshed
	// after any issue mutation.
	OpenIssuesCount int64 `gorm:"-" json:"-"`

	// Relations
	Author      User                   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Issues      []ConferenceIssue      `gorm:"foreignKey:ConferenceID" json:"issues,omitempty"`
	Favorites   []ConferenceFavorite   `gorm:"foreignKey:ConferenceID" json:"-"`
	Dismissals  []ConferenceDismissal  `gorm:"foreignKey:ConferenceID" json:"-"`
	Submissions []Submission           `gorm:"foreignKey:ConferenceID" json:"-"`
}

// IsCurrentlyAcceptingProposals reports whether now falls inside the
// CFP window. Both CFP dates must be set; the bounds are inclusive.
func (c *Conference) IsCurrentlyAcceptingProposals(now time.Time) bool {
	if !c.HasCfp || c.CfpStartsAt == nil || c.CfpEndsAt == nil {
		return false
	}
	return !now.Before(*c.CfpStartsAt) && !now.After(*c.CfpEndsAt)
}

func (c *Conference) IsApproved() bool {
	return c.ApprovedAt != nil
}

func (c *Conference) IsRejected() bool {
	return c.RejectedAt != nil
}

// IsFlagged reflects the most recently loaded open-issue count.
func (c *Conference) IsFlagged() bool {
	return c.OpenIssuesCount > 0
}

// ShouldBeSearchable gates inclusion in the text-search index: the
// conference must not be rejected and its end date (or start date if
// no end is recorded) must still be in the future.
func (c *Conference) ShouldBeSearchable(now time.Time) bool {
	if c.IsRejected() {
		return false
	}
	end := c.EndsAt
	if end == nil {
		end = c.StartsAt
	}
	if end == nil {
		return false
	}
	return end.After(now)
}

// EventDatesDisplay renders the human-readable event date range.
// Returns nil when no start date is recorded. A missing end date, or
// an end on the same calendar day as the start, renders as a single
// date.
func (c *Conference) EventDatesDisplay() *string {
	if c.StartsAt == nil {
		return nil
	}

	var display string
	if c.EndsAt == nil || sameDay(*c.StartsAt, *c.EndsAt) {
		display = c.StartsAt.Format("January 2, 2006")
	} else {
		display = c.StartsAt.Format("Jan 2 2006") + " - " + c.EndsAt.Format("Jan 2 2006")
	}
	return &display
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
