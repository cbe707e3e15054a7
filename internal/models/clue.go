package models

import "gorm.io/gorm"

// Clue is immutable template data: the question, its answer and point value.
// The live board status of a clue during play lives in ClueState.
type Clue struct {
	gorm.Model
	CategoryID    uint   `gorm:"not null;index"`
	Question      string `gorm:"not null"`
	Answer        string `gorm:"not null"`
	Value         int    `gorm:"not null"`
	MediaURL      string `gorm:"size:512"`
	IsDailyDouble bool   `gorm:"not null;default:false"`

	Category Category `gorm:"foreignKey:CategoryID"`
}
