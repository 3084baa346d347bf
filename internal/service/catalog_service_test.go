package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type recordingCatalogWriter struct {
	classes   []models.Class
	schedules map[string][]models.ClassSchedule
	err       error
}

func (r *recordingCatalogWriter) Upsert(_ context.Context, class models.Class, schedules []models.ClassSchedule) error {
	if r.err != nil {
		return r.err
	}
	if r.schedules == nil {
		r.schedules = map[string][]models.ClassSchedule{}
	}
	r.classes = append(r.classes, class)
	r.schedules[class.ID] = schedules
	return nil
}

const sampleCatalog = `
- code: CS101
  name: 컴퓨터과학개론
  professor: 김교수
  credits: 3
  capacity: 30
  department: 컴퓨터공학과
  courseType: 전공 필수
  schedules:
    - day: 월
      start_time: "9:00"
      end_time: "10:15"
      location: 공학관 101
    - day: Wednesday
      start_time: "09:00"
      end_time: "10:15"
- code: GE110
  name: 글쓰기
  credits: 2
  capacity: 25
  courseType: general
  schedules:
    - day: 5
      start_time: "15:00"
`

func TestParseCatalog(t *testing.T) {
	entries, err := ParseCatalog(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "CS101", entries[0].Code)
	assert.Equal(t, "전공 필수", entries[0].CourseType)
	require.Len(t, entries[0].Schedules, 2)
	assert.Equal(t, "9:00", entries[0].Schedules[0].StartTime)

	empty, err := ParseCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseCatalog(strings.NewReader("code: [unterminated"))
	assert.Error(t, err)
}

func TestCatalogServiceImportNormalisesEntries(t *testing.T) {
	entries, err := ParseCatalog(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	writer := &recordingCatalogWriter{}
	invalidator := &recordingInvalidator{}
	svc := NewCatalogService(writer, invalidator, nil)

	result, err := svc.Import(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Classes)
	assert.Equal(t, 3, result.Schedules)
	assert.Equal(t, 1, invalidator.calls)

	cs := writer.classes[0]
	assert.Equal(t, "CS101", cs.ID)
	assert.Equal(t, models.CourseTypeRequiredMajor, cs.CourseType)

	meetings := writer.schedules["CS101"]
	require.Len(t, meetings, 2)
	assert.Equal(t, models.Weekday(1), meetings[0].Weekday)
	assert.Equal(t, "09:00", meetings[0].StartTime)
	require.NotNil(t, meetings[0].DurationMinutes)
	assert.Equal(t, 75, *meetings[0].DurationMinutes)
	require.NotNil(t, meetings[0].Location)
	assert.Equal(t, "공학관 101", *meetings[0].Location)
	assert.Equal(t, models.Weekday(3), meetings[1].Weekday)

	ge := writer.schedules["GE110"]
	require.Len(t, ge, 1)
	assert.Equal(t, models.Weekday(5), ge[0].Weekday)
	assert.Nil(t, ge[0].EndTime)
	assert.Nil(t, ge[0].DurationMinutes)
}

func TestCatalogServiceImportValidatesBeforeWriting(t *testing.T) {
	cases := map[string][]models.CatalogEntry{
		"missing code":     {{Name: "No code", CourseType: "general"}},
		"unknown type":     {{Code: "X1", Name: "X", CourseType: "seminar"}},
		"negative seats":   {{Code: "X1", Name: "X", CourseType: "general", Capacity: -1}},
		"bad weekday":      {{Code: "X1", Name: "X", CourseType: "general", Schedules: []models.CatalogSchedule{{Day: "Funday", StartTime: "09:00"}}}},
		"inverted meeting": {{Code: "X1", Name: "X", CourseType: "general", Schedules: []models.CatalogSchedule{{Day: "1", StartTime: "11:00", EndTime: "10:00"}}}},
		"duplicate code": {
			{Code: "X1", Name: "X", CourseType: "general"},
			{Code: " X1 ", Name: "Again", CourseType: "general"},
		},
	}

	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			valid := models.CatalogEntry{Code: "OK100", Name: "Fine", CourseType: "general"}
			writer := &recordingCatalogWriter{}
			svc := NewCatalogService(writer, nil, nil)

			_, err := svc.Import(context.Background(), append([]models.CatalogEntry{valid}, entries...))
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			assert.Empty(t, writer.classes, "nothing is written when any entry is invalid")
		})
	}
}

func TestCatalogServiceImportReportsWriteFailure(t *testing.T) {
	writer := &recordingCatalogWriter{err: errors.New("deadlock detected")}
	svc := NewCatalogService(writer, nil, nil)

	result, err := svc.Import(context.Background(), []models.CatalogEntry{{Code: "CS101", Name: "Intro", CourseType: "general"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, result.Classes)
}
