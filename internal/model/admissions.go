package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AdmissionsInfo is one program entry of the admissions catalog shown on
// the admissions page.
type AdmissionsInfo struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ProgramName         string         `gorm:"not null" json:"program_name"`
	Description         *string        `json:"description"`
	Eligibility         string         `gorm:"not null" json:"eligibility"`
	Duration            string         `gorm:"not null" json:"duration"`
	FeeStructure        string         `gorm:"not null" json:"fee_structure"`
	SeatsAvailable      *int           `json:"seats_available"`
	Requirements        pq.StringArray `gorm:"type:text[]" json:"requirements"`
	ApplicationDeadline *time.Time     `json:"application_deadline"`
	CreatedAt           time.Time      `json:"created_at"`
}

// TableName keeps the table name in line with the rest of the portal schema.
func (AdmissionsInfo) TableName() string {
	return "admissions_info"
}
