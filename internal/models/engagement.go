package models

import "time"

// ConferenceFavorite marks a conference a user wants highlighted in
// their lists. A user may not favorite a conference they have
// dismissed; that guard lives in the engagement service.
type ConferenceFavorite struct {
	ConferenceID uint64    `gorm:"primarykey" json:"conference_id"`
	UserID       uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Conference Conference `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ConferenceDismissal hides a conference from a user's lists.
type ConferenceDismissal struct {
	ConferenceID uint64    `gorm:"primarykey" json:"conference_id"`
	UserID       uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Conference Conference `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
