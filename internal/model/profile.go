package model

import (
	"time"

	"github.com/google/uuid"
)

// EditableProfileInfo is the subset of profile fields a student can
// change themselves through the profile endpoint.
type EditableProfileInfo struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Semester   *int    `json:"semester"`
	StudentID  *string `json:"student_id"`
}

// Profile is the student profile record backing the portal dashboard.
type Profile struct {
	UserID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	User                User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Email               string    `gorm:"not null" json:"email"`
	EditableProfileInfo `gorm:"embedded"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName keeps the table name in line with the rest of the portal schema.
func (Profile) TableName() string {
	return "profiles"
}
