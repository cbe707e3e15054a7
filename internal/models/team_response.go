package models

import (
	"time"

	"gorm.io/gorm"
)

// TeamResponse is one submitted answer for a clue. A team may submit several
// times for the same clue; each attempt gets its own row. IsCorrect and
// AwardedValue stay nil until an operator validates the response.
type TeamResponse struct {
	gorm.Model
	TeamID          uint   `gorm:"not null;index"`
	ClueID          uint   `gorm:"not null;index"`
	SubmittedByID   uint   `gorm:"not null"`
	SubmittedAnswer string `gorm:"not null"`
	IsCorrect       *bool
	AwardedValue    *int
	ValidatedByID   *uint
	ValidatedAt     *time.Time

	Team        Team  `gorm:"foreignKey:TeamID"`
	Clue        Clue  `gorm:"foreignKey:ClueID"`
	SubmittedBy User  `gorm:"foreignKey:SubmittedByID"`
	ValidatedBy *User `gorm:"foreignKey:ValidatedByID"`
}
