package models

import "gorm.io/gorm"

// BoardState is the live status of a clue on the board.
type BoardState string

const (
	// ClueAvailable means no team holds the clue; it can be selected.
	ClueAvailable BoardState = "AVAILABLE"

	// CluePending means a team has claimed the clue and a ruling is awaited.
	CluePending BoardState = "PENDING"

	// ClueCorrect and ClueIncorrect are terminal for a claim cycle; only an
	// explicit reset returns the clue to AVAILABLE.
	ClueCorrect   BoardState = "CORRECT"
	ClueIncorrect BoardState = "INCORRECT"
)

// ClueState tracks a clue's live board status during play. At most one row
// exists per clue (created lazily on first selection); the unique index on
// ClueID backs the single-claim guarantee.
type ClueState struct {
	gorm.Model
	ClueID         uint       `gorm:"uniqueIndex;not null"`
	GameID         uint       `gorm:"not null;index"`
	State          BoardState `gorm:"size:20;not null;default:'AVAILABLE'"`
	PickedByTeamID *uint
	ResolvedByID   *uint

	Clue         Clue  `gorm:"foreignKey:ClueID"`
	PickedByTeam *Team `gorm:"foreignKey:PickedByTeamID"`
	ResolvedBy   *User `gorm:"foreignKey:ResolvedByID"`
}
