// Package admissions serves the read-only program catalog shown on the
// admissions page.
package admissions

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/utilities"
)

// Controller handles admissions catalog related endpoints
type Controller struct {
	DB *database.DBinstanceStruct
}

// NewController creates a new instance of Controller with the provided database connection
func NewController(db *database.DBinstanceStruct) *Controller {
	return &Controller{DB: db}
}

// ListHandler returns every advertised program with its requirements
// and key dates.
// @Summary List admission programs
// @Tags Admissions
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.AdmissionsInfo "Programs"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admissions [get]
func (a *Controller) ListHandler(c *gin.Context) {
	programs := []model.AdmissionsInfo{}
	if err := a.DB.Order("program_name ASC").Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to list programs: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, programs)
}
