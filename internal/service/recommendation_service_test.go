package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type fakeCatalogLister struct {
	classes []models.ClassWithSchedules
	err     error
}

func (f fakeCatalogLister) List(context.Context) ([]models.ClassWithSchedules, error) {
	return f.classes, f.err
}

func newRecommendationFixture(t *testing.T, handler http.HandlerFunc) *RecommendationService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRecommendationService(fakeCatalogLister{classes: catalogFixture()}, server.Client(), nil, zap.NewNop(), RecommendationConfig{
		BaseURL: server.URL + "/",
		Timeout: time.Second,
	})
}

func TestRecommendationServiceSendsCatalog(t *testing.T) {
	var received dto.RecommendUpstreamRequest
	svc := newRecommendationFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommend", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"recommendations":[{"id":"CS101","reason":"core"}]}`)
	})

	resp, err := svc.Recommend(context.Background(), dto.RecommendRequest{Major: "Computer Science", JobInterest: " backend engineer "})
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.JSONEq(t, `{"recommendations":[{"id":"CS101","reason":"core"}]}`, string(resp.Body))

	assert.Equal(t, "backend engineer", received.JobInterest)
	assert.Equal(t, "Computer Science", received.Major)
	require.Len(t, received.Courses, 3)
	first := received.Courses[0]
	assert.Equal(t, "CS101", first.ID)
	assert.Equal(t, "전공필수", first.CourseType)
	assert.Equal(t, []string{"월", "수"}, first.Day)
	assert.Equal(t, "09:00~10:15, 09:00~10:15", first.Time)
}

func TestRecommendationServiceRelaysUpstreamError(t *testing.T) {
	svc := newRecommendationFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error":"model offline"}`)
	})

	_, err := svc.Recommend(context.Background(), dto.RecommendRequest{JobInterest: "data"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDependency.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	detail, ok := appErr.Detail.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"error":"model offline"}`, string(detail))
}

func TestRecommendationServiceUnreachableUpstream(t *testing.T) {
	svc := NewRecommendationService(fakeCatalogLister{}, nil, nil, nil, RecommendationConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := svc.GenerateSchedules(context.Background(), dto.ScheduleRequest{SelectedCourseIDs: []string{"CS101"}})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDependency.Code, appErr.Code)
	assert.NotNil(t, appErr.Detail)
}

func TestRecommendationServiceValidation(t *testing.T) {
	svc := newRecommendationFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("upstream must not be called, got %s", r.URL.Path)
	})
	ctx := context.Background()

	_, err := svc.Recommend(ctx, dto.RecommendRequest{Major: "CS", JobInterest: "   "})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.GenerateSchedules(ctx, dto.ScheduleRequest{SelectedCourseIDs: []string{" ", ""}})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecommendationServiceGenerateSchedules(t *testing.T) {
	var received map[string]json.RawMessage
	svc := newRecommendationFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/schedule", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"schedules":[]}`)
	})

	resp, err := svc.GenerateSchedules(context.Background(), dto.ScheduleRequest{
		SelectedCourseIDs: []string{"MA201", "CS101", "CS101"},
		Preferences:       json.RawMessage(`{"freeDays":["금"]}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"schedules":[]}`, string(resp.Body))
	assert.JSONEq(t, `["CS101","MA201"]`, string(received["selected_course_ids"]))
	assert.JSONEq(t, `{"freeDays":["금"]}`, string(received["preferences"]))
}

func TestRecommendCoursesWithoutSchedules(t *testing.T) {
	courses := RecommendCourses([]models.ClassWithSchedules{{Class: models.Class{ID: "GE900", CourseType: models.CourseTypeGeneral}}})
	require.Len(t, courses, 1)
	assert.Equal(t, "시간 정보 없음", courses[0].Time)
	assert.Equal(t, []string{}, courses[0].Day)
	assert.Equal(t, "교양", courses[0].CourseType)
}
