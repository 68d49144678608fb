package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Conference indexes for the listing filters and sorts
		{"conferences", "idx_conferences_starts_at", "starts_at"},
		{"conferences", "idx_conferences_cfp_starts_at", "cfp_starts_at"},
		{"conferences", "idx_conferences_cfp_ends_at", "cfp_ends_at"},
		{"conferences", "idx_conferences_approved_at", "approved_at"},
		{"conferences", "idx_conferences_rejected_at", "rejected_at"},
		{"conferences", "idx_conferences_author_id", "author_id"},

		// Issue indexes for the open-issue count
		{"conference_issues", "idx_conference_issues_conference_id", "conference_id"},
		{"conference_issues", "idx_conference_issues_closed_at", "closed_at"},

		// Engagement join tables
		{"conference_favorites", "idx_conference_favorites_user_id", "user_id"},
		{"conference_dismissals", "idx_conference_dismissals_user_id", "user_id"},

		// Social identity lookup
		{"user_socials", "idx_user_socials_user_id", "user_id"},

		// Submissions
		{"submissions", "idx_submissions_talk_id", "talk_id"},
		{"submissions", "idx_submissions_conference_id", "conference_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
