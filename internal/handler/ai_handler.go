package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type aiProxy interface {
	Recommend(ctx context.Context, req dto.RecommendRequest) (*dto.UpstreamResponse, error)
	GenerateSchedules(ctx context.Context, req dto.ScheduleRequest) (*dto.UpstreamResponse, error)
}

// AIHandler relays requests to the recommendation and optimizer service.
type AIHandler struct {
	proxy aiProxy
}

// NewAIHandler constructs an AI handler.
func NewAIHandler(proxy aiProxy) *AIHandler {
	return &AIHandler{proxy: proxy}
}

// Recommend godoc
// @Summary Recommend courses
// @Description Sends the caller's interests and the catalog to the recommender and relays its reply verbatim
// @Tags AI
// @Accept json
// @Produce json
// @Param payload body dto.RecommendRequest true "Interests"
// @Success 200 {object} object
// @Failure 400 {object} appErrors.Error
// @Failure 500 {object} appErrors.Error
// @Router /ai/recommend [post]
func (h *AIHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "jobInterest is required"))
		return
	}
	resp, err := h.proxy.Recommend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, resp.ContentType, resp.Body)
}

// Schedule godoc
// @Summary Generate timetables
// @Tags AI
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleRequest true "Selected courses and preferences"
// @Success 200 {object} object
// @Failure 400 {object} appErrors.Error
// @Failure 500 {object} appErrors.Error
// @Router /ai/schedule [post]
func (h *AIHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "selectedCourseIds must not be empty"))
		return
	}
	resp, err := h.proxy.GenerateSchedules(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, resp.ContentType, resp.Body)
}
