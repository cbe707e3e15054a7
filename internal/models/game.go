package models

import "gorm.io/gorm"

// GameStatus is the lifecycle phase of a game.
type GameStatus string

const (
	// StatusLobby is the pre-game phase; roster and board may still be edited.
	StatusLobby GameStatus = "LOBBY"

	// StatusInProgress means the board is live and clues can be played.
	StatusInProgress GameStatus = "IN_PROGRESS"

	// StatusFinished is terminal.
	StatusFinished GameStatus = "FINISHED"
)

// DefaultTeamLimit is applied when a game is created without an explicit limit.
const DefaultTeamLimit = 4

// Game represents a single trivia-board game owned by a host.
type Game struct {
	gorm.Model
	Title     string     `gorm:"size:255;not null"`
	HostID    uint       `gorm:"not null;index"`
	JoinCode  string     `gorm:"size:12;unique;not null"`
	TeamLimit int        `gorm:"not null;default:4"`
	Status    GameStatus `gorm:"size:20;not null;default:'LOBBY';index"`

	Host   User    `gorm:"foreignKey:HostID"`
	Teams  []Team  `gorm:"foreignKey:GameID"`
	Rounds []Round `gorm:"foreignKey:GameID"`
}
