// Package application provides HTTP handlers for the campus admission
// application workflow: submission, status lookup, document retrieval
// and the live status stream.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/realtime"
	"campus-connect-backend/internal/storage"
	"campus-connect-backend/internal/utilities"
	"campus-connect-backend/internal/validation"
)

// submitTimeout bounds the whole upload-then-insert chain so a stuck
// backend surfaces a retryable error instead of a hung request.
const submitTimeout = 30 * time.Second

// Controller handles admission application related endpoints
type Controller struct {
	DB       *database.DBinstanceStruct
	Uploader *DocumentUploader
	Hub      *realtime.Hub
}

// NewController creates a new instance of Controller with the provided
// database connection, bucket client and realtime hub.
func NewController(db *database.DBinstanceStruct, store storage.Client, hub *realtime.Hub) *Controller {
	return &Controller{
		DB:       db,
		Uploader: NewDocumentUploader(store),
		Hub:      hub,
	}
}

// SubmitHandler handles the creation of a new admission application.
// The multipart form carries the submission fields plus up to five
// documents under the "documents" field.
// @Summary Submit admission application
// @Description One application per student; duplicates are rejected
// @Tags Application
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 201 {object} model.Application "Successfully submitted application"
// @Failure 400 {object} utilities.FieldErrorResponse "Validation failed"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 409 {object} utilities.ErrorResponse "Application already exists"
// @Failure 413 {object} utilities.ErrorResponse "Attached documents are too large"
// @Failure 500 {object} utilities.ErrorResponse "Upload or database error"
// @Router /application [post]
func (j *Controller) SubmitHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// Parse the body before touching any field: PostForm would swallow
	// the MaxBytesReader error and report an oversized request as a
	// validation failure instead of 413.
	mf, err := c.MultipartForm()
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid multipart form: %s", err.Error()),
		})
		return
	}

	form := validation.ApplicationForm{
		FullName:    c.PostForm("full_name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		DateOfBirth: c.PostForm("date_of_birth"),
		Address:     c.PostForm("address"),
		Course:      c.PostForm("course"),
		Department:  c.PostForm("department"),
	}

	if fieldErrs := validation.ValidateApplicationForm(form); fieldErrs != nil {
		c.JSON(http.StatusBadRequest, utilities.FieldErrorResponse{
			Error:  "Validation failed",
			Fields: fieldErrs,
		})
		return
	}

	// One application per student: check before inserting so the common
	// case gets a friendly answer. The unique index still decides races.
	existing := model.Application{}
	if err := j.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "You have already submitted an application",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), submitTimeout)
	defer cancel()

	documents, err := j.Uploader.Upload(ctx, user.ID, mf.File["documents"])
	if err != nil {
		// earlier files of the batch stay in the bucket as orphans
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to upload documents: %s", err.Error()),
		})
		return
	}

	application := model.Application{
		UserID:      user.ID,
		FullName:    form.FullName,
		Email:       form.Email,
		Phone:       form.Phone,
		DateOfBirth: form.DateOfBirth,
		Address:     form.Address,
		Course:      form.Course,
		Department:  form.Department,
		Documents:   documents,
		Status:      model.ApplicationStatusPending,
	}

	if err := j.DB.WithContext(ctx).Create(&application).Error; err != nil {
		var pqErr *pgconn.PgError
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// lost a race against a concurrent first submission
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "You have already submitted an application",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to submit application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GetHandler returns the caller's application with its presentation
// config, or 404 when none exists so the client can branch to the
// submission form.
// @Summary Retrieve own admission application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} map[string]interface{} "Application and status configuration"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "No application submitted yet"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application [get]
func (j *Controller) GetHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application := model.Application{}
	if err := j.DB.Where("user_id = ?", user.ID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{
				Error: "No application found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application":   application,
		"status_config": application.Status.Config(),
	})
}

// DocumentHandler streams one of the caller's stored documents back as
// a downloadable attachment, addressed by its position in the manifest.
// @Summary Download a submitted document
// @Tags Application
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param index path int true "Position of the document in the manifest"
// @Success 200 {string} binary "Document content"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "No application or no such document"
// @Failure 500 {object} utilities.ErrorResponse "Storage error"
// @Router /application/document/{index} [get]
func (j *Controller) DocumentHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application := model.Application{}
	if err := j.DB.Where("user_id = ?", user.ID).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No application found"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= len(application.Documents) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "No such document"})
		return
	}
	doc := application.Documents[index]

	reader, size, err := j.Uploader.Storage.DownloadFile(doc.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to download document from storage: %s", err.Error()),
		})
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("failed to close storage reader: %v", err)
		}
	}()

	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+doc.Name)
	contentType := doc.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Writer.Header().Set("Content-Type", contentType)
	if size > 0 {
		c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
	}

	if _, err := io.Copy(c.Writer, reader); err != nil {
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to send document content",
			})
		} else {
			c.Abort()
		}
	}
}
