package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/utilities"
)

// statusEvent is one frame of the status stream: the current row image,
// its presentation config and the notification text shown to the user.
type statusEvent struct {
	Application  model.Application       `json:"application"`
	Status       model.ApplicationStatus `json:"status"`
	StatusConfig model.StatusConfig      `json:"status_config"`
	Notification string                  `json:"notification,omitempty"`
}

func updateEvent(app model.Application) statusEvent {
	return statusEvent{
		Application:  app,
		Status:       app.Status,
		StatusConfig: app.Status.Config(),
		Notification: fmt.Sprintf("Your application status has been updated to: %s", app.Status),
	}
}

func snapshotEvent(app model.Application) statusEvent {
	return statusEvent{
		Application:  app,
		Status:       app.Status,
		StatusConfig: app.Status.Config(),
	}
}

// StreamHandler serves the live status feed as server-sent events. The
// first frame is a snapshot of the current row; every later frame is a
// real status change pushed by the change feed. The hub subscription is
// released as soon as the client goes away.
// @Summary Stream live application status updates
// @Tags Application
// @Produce text/event-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {string} string "SSE stream of application_state and application_update events"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "No application submitted yet"
// @Router /application/stream [get]
func (j *Controller) StreamHandler(c *gin.Context) {
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

	events, release := j.Hub.Subscribe(user.ID)
	defer release()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("application_state", snapshotEvent(application))
	c.Writer.Flush()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Resync {
				// the change feed reconnected; reconcile with a fresh fetch
				fresh := model.Application{}
				if err := j.DB.Where("user_id = ?", user.ID).First(&fresh).Error; err != nil {
					continue
				}
				c.SSEvent("application_state", snapshotEvent(fresh))
				c.Writer.Flush()
				continue
			}
			c.SSEvent("application_update", updateEvent(*ev.New))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
