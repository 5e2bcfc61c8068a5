// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// RoleStudent is the role of a portal user that can submit an admission application
	RoleStudent = "student"
	// RoleAdmin is the role of the admissions office staff reviewing applications
	RoleAdmin = "admin"
)

// User represents an authenticated portal account
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     *string   `json:"email"`
	Role      string    `gorm:"not null" json:"role"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
