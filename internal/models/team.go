package models

import "time"

// Team represents a group of players competing in one game.
//
// Position is the 1-based display rank within the game and stays contiguous:
// removals re-number the remaining teams. The unique index on
// (game_id, position) makes two concurrent creates computing the same next
// position collide at the database, backing the team-limit invariant. Rows are
// hard-deleted so freed positions can be reused. Score is a signed total and
// may go negative.
type Team struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	GameID    uint   `gorm:"uniqueIndex:uniq_game_position;not null"`
	Name      string `gorm:"size:255;not null"`
	Position  int    `gorm:"uniqueIndex:uniq_game_position;not null" json:"order"`
	Score     int    `gorm:"not null;default:0"`

	Members []TeamMember `gorm:"foreignKey:TeamID"`
}
