package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type courseCatalog interface {
	List(ctx context.Context) ([]models.ClassWithSchedules, error)
	ListDemandAlerts(ctx context.Context) ([]models.Class, error)
	CheckConflicts(ctx context.Context, classIDs []string) (*dto.ConflictReport, error)
}

type interestTracker interface {
	Toggle(ctx context.Context, userID, classID string) (*dto.ToggleInterestResult, error)
	ListMine(ctx context.Context, userID string) (*dto.InterestList, error)
}

type demandAggregator interface {
	Aggregate(ctx context.Context) (*dto.AggregateResult, error)
}

// CourseHandler serves catalog, interest and demand endpoints.
type CourseHandler struct {
	catalog   courseCatalog
	interests interestTracker
	demand    demandAggregator
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(catalog courseCatalog, interests interestTracker, demand demandAggregator) *CourseHandler {
	return &CourseHandler{catalog: catalog, interests: interests, demand: demand}
}

// List godoc
// @Summary List courses
// @Description Every class with its weekly schedule, ordered by id
// @Tags Courses
// @Produce json
// @Success 200 {array} models.ClassWithSchedules
// @Failure 500 {object} appErrors.Error
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	classes, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes)
}

// Alerts godoc
// @Summary List demand alerts
// @Description Classes flagged NEAR or FULL by the last aggregation, most recently updated first
// @Tags Courses
// @Produce json
// @Success 200 {array} models.Class
// @Router /courses/alerts [get]
func (h *CourseHandler) Alerts(c *gin.Context) {
	alerts, err := h.catalog.ListDemandAlerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alerts)
}

// Conflicts godoc
// @Summary Check schedule conflicts
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.ConflictCheckRequest true "Classes to compare"
// @Success 200 {object} dto.ConflictReport
// @Failure 400 {object} appErrors.Error
// @Failure 404 {object} appErrors.Error
// @Router /courses/conflicts [post]
func (h *CourseHandler) Conflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict check payload"))
		return
	}
	report, err := h.catalog.CheckConflicts(c.Request.Context(), req.ClassIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Interests godoc
// @Summary List my interests
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.InterestList
// @Failure 401 {object} appErrors.Error
// @Router /courses/interests [get]
func (h *CourseHandler) Interests(c *gin.Context) {
	claims, err := requireUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.interests.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// ToggleInterest godoc
// @Summary Toggle interest in a class
// @Description Adds the class to the caller's interests, or removes it when already present
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param classId path string true "Class ID"
// @Success 200 {object} dto.ToggleInterestResult
// @Failure 401 {object} appErrors.Error
// @Failure 404 {object} appErrors.Error
// @Router /courses/{classId}/interest [post]
func (h *CourseHandler) ToggleInterest(c *gin.Context) {
	claims, err := requireUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.interests.Toggle(c.Request.Context(), claims.UserID, c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Aggregate godoc
// @Summary Recompute demand
// @Description Recounts interests per class and refreshes enrolled and demandStatus
// @Tags Courses
// @Produce json
// @Param X-Cron-Secret header string true "Shared cron secret"
// @Success 200 {object} dto.AggregateResult
// @Failure 401 {object} appErrors.Error
// @Failure 500 {object} appErrors.Error
// @Router /courses/aggregate [post]
func (h *CourseHandler) Aggregate(c *gin.Context) {
	result, err := h.demand.Aggregate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
