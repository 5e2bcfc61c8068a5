// Package fees serves the fee deadlines board and the caller's payment
// history.
package fees

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/utilities"
)

// Controller handles fee related endpoints
type Controller struct {
	DB *database.DBinstanceStruct

	now func() time.Time
}

// NewController creates a new instance of Controller with the provided database connection
func NewController(db *database.DBinstanceStruct) *Controller {
	return &Controller{DB: db, now: time.Now}
}

// deadlineEntry decorates a fee deadline with the urgency fields the
// dashboard renders.
type deadlineEntry struct {
	model.FeeDeadline
	DueLabel     string `json:"due_label"`
	DaysUntilDue int    `json:"days_until_due"`
}

// DeadlinesHandler returns every fee deadline ordered by due date, each
// labelled overdue, due soon or upcoming relative to now.
// @Summary List fee deadlines
// @Tags Fees
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} deadlineEntry "Fee deadlines"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /fees/deadlines [get]
func (f *Controller) DeadlinesHandler(c *gin.Context) {
	deadlines := []model.FeeDeadline{}
	if err := f.DB.Order("due_date ASC").Find(&deadlines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to list fee deadlines: %s", err.Error()),
		})
		return
	}

	now := f.now()
	entries := make([]deadlineEntry, 0, len(deadlines))
	for _, deadline := range deadlines {
		entries = append(entries, deadlineEntry{
			FeeDeadline:  deadline,
			DueLabel:     deadline.DueLabel(now),
			DaysUntilDue: deadline.DaysUntilDue(now),
		})
	}

	c.JSON(http.StatusOK, entries)
}

// PaymentsHandler returns the caller's own payment history, newest
// payment first.
// @Summary List own fee payments
// @Tags Fees
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.FeePayment "Payments"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /fees/payments [get]
func (f *Controller) PaymentsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	payments := []model.FeePayment{}
	if err := f.DB.Where("student_id = ?", user.ID).Order("payment_date DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to list payments: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, payments)
}
