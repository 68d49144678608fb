package models

import "time"

// Submission records a talk being submitted to a conference, along
// with the outcome once the organizers respond.
type Submission struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	TalkID       uint64     `gorm:"not null;index" json:"talk_id"`
	ConferenceID uint64     `gorm:"not null;index" json:"conference_id"`
	AcceptedAt   *time.Time `json:"accepted_at"`
	RejectedAt   *time.Time `json:"rejected_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Talk       Talk       `gorm:"foreignKey:TalkID" json:"talk,omitempty"`
	Conference Conference `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
}

func (s *Submission) IsAccepted() bool {
	return s.AcceptedAt != nil
}

func (s *Submission) IsRejected() bool {
	return s.RejectedAt != nil
}
