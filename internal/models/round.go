package models

import "gorm.io/gorm"

// RoundType distinguishes board formats within a game.
type RoundType string

const (
	RoundJeopardy       RoundType = "JEOPARDY"
	RoundDoubleJeopardy RoundType = "DOUBLE_JEOPARDY"
	RoundFinal          RoundType = "FINAL"
)

// Round is an ordered section of a game's board, holding categories of clues.
type Round struct {
	gorm.Model
	GameID   uint      `gorm:"not null;index"`
	Type     RoundType `gorm:"size:50;not null;default:'JEOPARDY'"`
	Position int       `gorm:"not null" json:"order"`

	Categories []Category `gorm:"foreignKey:RoundID"`
}

// Category groups clues under a title within a round.
type Category struct {
	gorm.Model
	RoundID  uint   `gorm:"not null;index"`
	Title    string `gorm:"size:255;not null"`
	Position int    `gorm:"not null" json:"order"`

	Clues []Clue `gorm:"foreignKey:CategoryID"`
}
