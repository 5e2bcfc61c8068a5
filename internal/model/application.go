package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the closed set of review states an admission
// application can be in. Unrecognized values coming from outside are
// rendered as pending, see Config.
type ApplicationStatus string

const (
	// ApplicationStatusPending indicates that the application is under review
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusApproved indicates that the admissions office approved the application
	ApplicationStatusApproved ApplicationStatus = "approved"
	// ApplicationStatusRejected indicates that the admissions office rejected the application
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further status transition is permitted.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// CanTransition reports whether moving from s to next is a legal review
// decision. Only pending applications can be decided, decisions are final.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	return s == ApplicationStatusPending && next.Terminal()
}

// DocumentManifest describes one uploaded document: its original name,
// the object path in the storage bucket, and size/type metadata.
// The document bytes themselves live in the bucket, not in the row.
type DocumentManifest struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// DocumentList is the ordered set of manifest entries of one application,
// persisted as a single jsonb column. Entries are set at creation and
// never amended.
type DocumentList []DocumentManifest

// Value implements driver.Valuer so gorm can write the list as jsonb.
func (d DocumentList) Value() (driver.Value, error) {
	if d == nil {
		d = DocumentList{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reading the jsonb column back.
func (d *DocumentList) Scan(value interface{}) error {
	if value == nil {
		*d = DocumentList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into DocumentList", value)
	}
}

// Application represents one campus admission application. A student can
// hold at most one, enforced by the unique index on UserID.
type Application struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`

	FullName    string `gorm:"type:text;not null" json:"full_name"`
	Email       string `gorm:"type:text;not null" json:"email"`
	Phone       string `gorm:"type:text;not null" json:"phone"`
	DateOfBirth string `gorm:"type:text;not null" json:"date_of_birth"`
	Address     string `gorm:"type:text;not null" json:"address"`
	Course      string `gorm:"type:text;not null" json:"course"`
	Department  string `gorm:"type:text;not null" json:"department"`

	Documents DocumentList      `gorm:"type:jsonb" json:"documents"`
	Status    ApplicationStatus `gorm:"type:text;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name in line with the rest of the portal schema.
func (Application) TableName() string {
	return "applications"
}

// StatusConfig is the fixed presentation of one status value: icon name,
// badge label, style class, and the message shown to the applicant.
type StatusConfig struct {
	Icon        string `json:"icon"`
	Label       string `json:"label"`
	Class       string `json:"class"`
	Description string `json:"description"`
}

// Config maps a status to its presentation. Pure function; anything
// outside the known set falls back to the pending configuration.
func (s ApplicationStatus) Config() StatusConfig {
	switch s {
	case ApplicationStatusApproved:
		return StatusConfig{
			Icon:        "check-circle",
			Label:       "Approved",
			Class:       "status-approved",
			Description: "Congratulations! Your application has been approved.",
		}
	case ApplicationStatusRejected:
		return StatusConfig{
			Icon:        "x-circle",
			Label:       "Rejected",
			Class:       "status-rejected",
			Description: "Unfortunately, your application was not approved at this time.",
		}
	default:
		return StatusConfig{
			Icon:        "clock",
			Label:       "Under Review",
			Class:       "status-pending",
			Description: "Your application is currently being reviewed by our admissions team.",
		}
	}
}
