// Package admin provides the review endpoints used by admissions
// staff: listing submitted applications and deciding their outcome.
package admin

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/utilities"
)

// Controller handles admin review related endpoints
type Controller struct {
	DB *database.DBinstanceStruct
}

// NewController creates a new instance of Controller with the provided database connection
func NewController(db *database.DBinstanceStruct) *Controller {
	return &Controller{DB: db}
}

type updateStatusRequest struct {
	Status model.ApplicationStatus `json:"status" binding:"required"`
}

// ListApplicationsHandler returns every submitted application, newest
// first, optionally filtered down to one status.
// @Summary List admission applications
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Success 200 {array} model.Application "Applications"
// @Failure 400 {object} utilities.ErrorResponse "Unknown status filter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/applications [get]
func (a *Controller) ListApplicationsHandler(c *gin.Context) {
	query := a.DB.Model(&model.Application{}).Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		switch model.ApplicationStatus(status) {
		case model.ApplicationStatusPending, model.ApplicationStatusApproved, model.ApplicationStatusRejected:
			query = query.Where("status = ?", status)
		default:
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Unknown status: %s", status),
			})
			return
		}
	}

	applications := []model.Application{}
	if err := query.Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to list applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// UpdateStatusHandler decides one application. Only a pending
// application can move, and only to a terminal status; the update is
// guarded so two concurrent decisions cannot both win.
// @Summary Approve or reject an application
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Application ID"
// @Param request body updateStatusRequest true "New status"
// @Success 200 {object} model.Application "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 404 {object} utilities.ErrorResponse "Unknown application"
// @Failure 409 {object} utilities.ErrorResponse "Application already decided"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/application/{id}/status [patch]
func (a *Controller) UpdateStatusHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application ID"})
		return
	}

	request := updateStatusRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application := model.Application{}
	if err := a.DB.Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No application found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if !application.Status.CanTransition(request.Status) {
		if application.Status.Terminal() {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: fmt.Sprintf("Application is already %s", application.Status),
			})
			return
		}
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Cannot move application to status: %s", request.Status),
		})
		return
	}

	// only the first decision lands; a concurrent one finds zero rows
	result := a.DB.Model(&model.Application{}).
		Where("id = ? AND status = ?", id, model.ApplicationStatusPending).
		Update("status", request.Status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", result.Error.Error()),
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "Application has already been decided",
		})
		return
	}

	// re-read so the response carries the stored updated_at, not the
	// timestamps of the row as it was before the decision
	if err := a.DB.Where("id = ?", id).First(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, application)
}
