package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Admin        bool           `gorm:"not null;default:false" json:"admin"`
	Featured     bool           `gorm:"not null;default:false" json:"featured"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Conferences []Conference          `gorm:"foreignKey:AuthorID" json:"-"`
	Talks       []Talk                `gorm:"foreignKey:UserID" json:"-"`
	Social      []UserSocial          `gorm:"foreignKey:UserID" json:"-"`
	Favorites   []ConferenceFavorite  `gorm:"foreignKey:UserID" json:"-"`
	Dismissals  []ConferenceDismissal `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Admin
}
