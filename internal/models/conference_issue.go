package models

import "time"

type ConferenceIssue struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	ConferenceID uint64     `gorm:"not null;index" json:"conference_id"`
	UserID       uint64     `gorm:"not null" json:"user_id"`
	Reason       string     `gorm:"type:varchar(100);not null" json:"reason"`
	Description  string     `gorm:"type:text" json:"description"`
	AdminNote    string     `gorm:"type:text" json:"admin_note"`
	ClosedAt     *time.Time `json:"closed_at"`
	ClosedBy     *uint64    `json:"closed_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Conference Conference `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	Reporter   User       `gorm:"foreignKey:UserID" json:"reporter,omitempty"`
}

// IsOpen reports whether the issue has not been closed yet.
func (i *ConferenceIssue) IsOpen() bool {
	return i.ClosedAt == nil
}
