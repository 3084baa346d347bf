package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type timetableManager interface {
	List(ctx context.Context, userID string) ([]models.Timetable, error)
	Create(ctx context.Context, userID string, req dto.CreateTimetableRequest) (*models.Timetable, error)
	Delete(ctx context.Context, userID, id string) error
	Export(ctx context.Context, userID, id string, format dto.ExportFormat, start time.Time) (*dto.ExportFile, error)
}

// TimetableHandler exposes a student's saved timetables.
type TimetableHandler struct {
	service  timetableManager
	location *time.Location
}

// NewTimetableHandler constructs a timetable handler. Export start dates are
// interpreted in loc.
func NewTimetableHandler(svc timetableManager, loc *time.Location) *TimetableHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TimetableHandler{service: svc, location: loc}
}

// List godoc
// @Summary List my timetables
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Timetable
// @Failure 401 {object} appErrors.Error
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	claims, err := requireUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	timetables, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetables)
}

// Create godoc
// @Summary Save a timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTimetableRequest true "Timetable snapshot"
// @Success 201 {object} models.Timetable
// @Failure 400 {object} appErrors.Error
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	claims, err := requireUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "timetable name and courses are required"))
		return
	}
	timetable, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timetable)
}

// Delete godoc
// @Summary Delete a timetable
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} appErrors.Error
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	claims, err := requireUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "timetable deleted")
}

// Export godoc
// @Summary Export a timetable
// @Description Download the snapshot as csv, pdf, xlsx or an iCalendar file
// @Tags Timetables
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Timetable ID"
// @Param format query string false "csv | pdf | xlsx | ics" default(csv)
// @Param start query string false "First week for ics exports (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} appErrors.Error
// @Failure 404 {object} appErrors.Error
// @Router /timetables/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	claims, err := requireUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := dto.ExportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(dto.ExportCSV)))))

	var start time.Time
	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		start, err = time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("start must be YYYY-MM-DD, got %q", raw)))
			return
		}
	}

	file, err := h.service.Export(c.Request.Context(), claims.UserID, c.Param("id"), format, start)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
