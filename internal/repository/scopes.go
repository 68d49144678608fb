package repository

import (
	"time"

	"gorm.io/gorm"
)

// Composable conference query scopes. Each returns a function usable
// with gorm's Scopes so the listing query is assembled from
// independently testable pieces.

// Approved limits to conferences with a set approved_at.
func Approved() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.approved_at IS NOT NULL")
	}
}

// NotApproved limits to conferences awaiting approval.
func NotApproved() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.approved_at IS NULL")
	}
}

// NotRejected excludes rejected conferences.
func NotRejected() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.rejected_at IS NULL")
	}
}

// NotShared limits to conferences that have not been shared yet.
func NotShared() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.shared_at IS NULL")
	}
}

// HasDates requires both event dates to be recorded.
func HasDates() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.starts_at IS NOT NULL AND conferences.ends_at IS NOT NULL")
	}
}

// HasEventStart requires a start date.
func HasEventStart() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.starts_at IS NOT NULL")
	}
}

// HasCfpStart requires a CFP opening date.
func HasCfpStart() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.cfp_starts_at IS NOT NULL")
	}
}

// HasCfpEnd requires a CFP closing date.
func HasCfpEnd() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.cfp_ends_at IS NOT NULL")
	}
}

// CfpIsOpen limits to conferences whose CFP window contains now,
// bounds inclusive.
func CfpIsOpen(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.has_cfp = ?", true).
			Where("conferences.cfp_starts_at <= ?", now).
			Where("conferences.cfp_ends_at >= ?", now)
	}
}

// CfpIsFuture limits to conferences whose CFP opens after now.
func CfpIsFuture(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.has_cfp = ?", true).
			Where("conferences.cfp_starts_at > ?", now)
	}
}

// CfpIsUnclosed covers both open and future CFPs: the closing date is
// either unset or still ahead. Conferences without a CFP are excluded.
func CfpIsUnclosed(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("conferences.has_cfp = ?", true).
			Where("conferences.cfp_ends_at IS NULL OR conferences.cfp_ends_at >= ?", now)
	}
}

// EventEndsAfter requires the event's end (falling back to its start)
// to be after now.
func EventEndsAfter(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("COALESCE(conferences.ends_at, conferences.starts_at) > ?", now)
	}
}

// FavoritedBy limits to conferences the user has favorited.
func FavoritedBy(userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"EXISTS (SELECT 1 FROM conference_favorites WHERE conference_favorites.conference_id = conferences.id AND conference_favorites.user_id = ?)",
			userID,
		)
	}
}

// DismissedBy limits to conferences the user has dismissed.
func DismissedBy(userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"EXISTS (SELECT 1 FROM conference_dismissals WHERE conference_dismissals.conference_id = conferences.id AND conference_dismissals.user_id = ?)",
			userID,
		)
	}
}

// NotDismissedBy excludes conferences the user has dismissed.
func NotDismissedBy(userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"NOT EXISTS (SELECT 1 FROM conference_dismissals WHERE conference_dismissals.conference_id = conferences.id AND conference_dismissals.user_id = ?)",
			userID,
		)
	}
}

// dateColumns is the whitelist DateDuring accepts; the column name is
// interpolated into SQL.
var dateColumns = map[string]bool{
	"starts_at":     true,
	"ends_at":       true,
	"cfp_starts_at": true,
	"cfp_ends_at":   true,
}

// DateDuring windows the given date column to one calendar month:
// inclusive at month start, exclusive at the next month's start.
func DateDuring(year int, month time.Month, column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !dateColumns[column] {
			return db.Where("1 = 0")
		}
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)
		return db.Where("conferences."+column+" >= ? AND conferences."+column+" < ?", start, end)
	}
}
