package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the gateway's read-only view of the application's user table.
// The rest of the SaaS owns writes; the gateway only asks whether a user
// still exists and when they last did anything.
type User struct {
	gorm.Model
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	LastActivityAt *time.Time `gorm:"index" json:"lastActivityAt"`
}
