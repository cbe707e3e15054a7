package models

import "time"

// TeamMember links a user to a team. A user can join a given team at most once.
type TeamMember struct {
	ID        uint `gorm:"primarykey"`
	TeamID    uint `gorm:"uniqueIndex:uniq_team_user;not null"`
	UserID    uint `gorm:"uniqueIndex:uniq_team_user;not null"`
	IsCaptain bool `gorm:"not null;default:false"`
	JoinedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}
