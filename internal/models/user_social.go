package models

import "time"

// UserSocial joins a user to an external identity provider. One row
// per (service, social_id) pair; created the first time a known email
// logs in from a new provider.
type UserSocial struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Service   string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_socials_service_social_id" json:"service"`
	SocialID  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_socials_service_social_id" json:"social_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
