package models

import "time"

// Review is a 1-5 star rating left on an advisor or evaluator profile.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"index;not null" json:"subject_id"`
	Subject   User      `json:"subject"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    User      `json:"author"`
	Rating    int       `gorm:"not null" json:"rating"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
