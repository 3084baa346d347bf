package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

const maxUpstreamBody = 4 << 20

type catalogLister interface {
	List(ctx context.Context) ([]models.ClassWithSchedules, error)
}

// RecommendationConfig points the proxy at the AI service.
type RecommendationConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RecommendationService proxies recommendation and timetable generation
// requests to the external AI service. Calls are not retried.
type RecommendationService struct {
	catalog   catalogLister
	client    *http.Client
	baseURL   string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecommendationService constructs the AI proxy.
func NewRecommendationService(catalog catalogLister, client *http.Client, validate *validator.Validate, logger *zap.Logger, cfg RecommendationConfig) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &RecommendationService{
		catalog:   catalog,
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		validator: validate,
		logger:    logger,
	}
}

// Recommend sends the caller's interests together with the full catalog to
// the recommender and relays its reply.
func (s *RecommendationService) Recommend(ctx context.Context, req dto.RecommendRequest) (*dto.UpstreamResponse, error) {
	req.JobInterest = strings.TrimSpace(req.JobInterest)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "jobInterest is required")
	}

	classes, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	payload := dto.RecommendUpstreamRequest{
		Major:       strings.TrimSpace(req.Major),
		JobInterest: req.JobInterest,
		Courses:     RecommendCourses(classes),
	}
	return s.post(ctx, "/recommend", payload)
}

// GenerateSchedules forwards a timetable generation request to the optimizer.
func (s *RecommendationService) GenerateSchedules(ctx context.Context, req dto.ScheduleRequest) (*dto.UpstreamResponse, error) {
	req.SelectedCourseIDs = uniqueTrimmed(req.SelectedCourseIDs)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "selectedCourseIds must not be empty")
	}
	return s.post(ctx, "/api/schedule", dto.ScheduleUpstreamRequest{
		SelectedCourseIDs: req.SelectedCourseIDs,
		Preferences:       req.Preferences,
	})
}

func (s *RecommendationService) post(ctx context.Context, path string, payload interface{}) (*dto.UpstreamResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode upstream request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build upstream request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Warn("ai service unreachable", zap.String("path", path), zap.Error(err))
		return nil, dependencyError(err, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, dependencyError(err, err.Error())
	}

	s.logger.Debug("ai service replied",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("ai service returned error", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, dependencyError(fmt.Errorf("ai service %s returned %d", path, resp.StatusCode), upstreamDetail(raw, resp.Status))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	return &dto.UpstreamResponse{ContentType: contentType, Body: raw}, nil
}

func dependencyError(cause error, detail interface{}) error {
	appErr := appErrors.WithDetail(appErrors.ErrDependency, detail)
	appErr.Err = cause
	return appErr
}

func upstreamDetail(raw []byte, fallback string) interface{} {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fallback
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(trimmed)
}

// RecommendCourses projects catalog classes into the shape the recommender
// expects: Korean weekday labels and a "HH:MM~HH:MM, ..." time string.
func RecommendCourses(classes []models.ClassWithSchedules) []dto.RecommendCourse {
	courses := make([]dto.RecommendCourse, 0, len(classes))
	for _, c := range classes {
		days := []string{}
		seen := map[string]bool{}
		times := make([]string, 0, len(c.Schedules))
		for _, sch := range c.Schedules {
			if label := sch.Weekday.Korean(); label != "" && !seen[label] {
				seen[label] = true
				days = append(days, label)
			}
			slot := clock(sch.StartTime)
			if sch.EndTime != nil && *sch.EndTime != "" {
				slot += "~" + clock(*sch.EndTime)
			}
			times = append(times, slot)
		}

		when := strings.Join(times, ", ")
		if when == "" {
			when = "시간 정보 없음"
		}

		courses = append(courses, dto.RecommendCourse{
			ID:         c.ID,
			Code:       c.Code,
			Name:       c.Name,
			Professor:  c.Professor,
			Credits:    c.Credits,
			Capacity:   c.Capacity,
			Enrolled:   c.Enrolled,
			Department: c.Department,
			CourseType: c.CourseType.Label(),
			Day:        days,
			Time:       when,
		})
	}
	return courses
}

func clock(raw string) string {
	if len(raw) > 5 {
		return raw[:5]
	}
	return raw
}
