package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Due labels computed from the distance between now and a deadline's due
// date. "due soon" covers deadlines inside the next week.
const (
	DueLabelOverdue  = "overdue"
	DueLabelDueSoon  = "due soon"
	DueLabelUpcoming = "upcoming"
)

// FeeDeadline is one fee the college collects, with its due date and
// optional late fee.
type FeeDeadline struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  *string        `json:"description"`
	Amount       float64        `gorm:"not null" json:"amount"`
	LateFee      *float64       `json:"late_fee"`
	DueDate      time.Time      `gorm:"not null" json:"due_date"`
	ApplicableTo pq.StringArray `gorm:"type:text[]" json:"applicable_to"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName keeps the table name in line with the rest of the portal schema.
func (FeeDeadline) TableName() string {
	return "fee_deadlines"
}

// DueLabel classifies the deadline relative to now.
func (f FeeDeadline) DueLabel(now time.Time) string {
	days := f.DaysUntilDue(now)
	switch {
	case days < 0:
		return DueLabelOverdue
	case days <= 7:
		return DueLabelDueSoon
	default:
		return DueLabelUpcoming
	}
}

// DaysUntilDue returns whole days from now until the due date, negative
// once the deadline has passed.
func (f FeeDeadline) DaysUntilDue(now time.Time) int {
	return int(f.DueDate.Sub(now).Hours() / 24)
}

// FeePayment records one payment a student made against a fee deadline.
type FeePayment struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	StudentID     *uuid.UUID  `gorm:"type:uuid;index" json:"student_id"`
	FeeDeadlineID *uuid.UUID  `gorm:"type:uuid" json:"fee_deadline_id"`
	FeeDeadline   FeeDeadline `gorm:"foreignKey:FeeDeadlineID;references:ID" json:"-"`
	AmountPaid    float64     `gorm:"not null" json:"amount_paid"`
	PaymentDate   time.Time   `json:"payment_date"`
	PaymentMethod *string     `json:"payment_method"`
	TransactionID *string     `json:"transaction_id"`
	Status        string      `gorm:"not null;default:'completed'" json:"status"`
}

// TableName keeps the table name in line with the rest of the portal schema.
func (FeePayment) TableName() string {
	return "fee_payments"
}
