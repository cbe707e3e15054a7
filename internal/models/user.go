package models

import "gorm.io/gorm"

// Role determines what a user may do across games they do not own.
type Role string

const (
	// RoleHost may create and configure games.
	RoleHost Role = "HOST"

	// RoleOperator may validate answers and adjust scores during play.
	RoleOperator Role = "OPERATOR"

	// RolePlayer is the default role for registered users.
	RolePlayer Role = "PLAYER"
)

// User represents a registered account.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:50;not null;default:'PLAYER';index"`
}

// CanValidate reports whether the user may validate responses and adjust scores.
func (u User) CanValidate() bool {
	return u.Role == RoleHost || u.Role == RoleOperator
}
