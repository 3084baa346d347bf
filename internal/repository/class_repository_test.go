package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/models"
)

var classRowColumns = []string{"id", "code", "name", "professor", "credits", "capacity", "enrolled", "department", "course_type", "demand_status", "created_at", "updated_at"}

func TestClassRepositoryListWithSchedulesNestsByClass(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM classes ORDER BY id ASC`)).
		WillReturnRows(sqlmock.NewRows(classRowColumns).
			AddRow("CS101", "CS101", "Intro", "Lee", 3, 40, 10, "CS", "REQUIRED_MAJOR", "NORMAL", now, now).
			AddRow("MATH201", "MATH201", "Linear Algebra", "Park", 3, 30, 0, "Math", "GENERAL", "NORMAL", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM class_schedules ORDER BY class_id ASC, weekday ASC, start_time ASC, id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "weekday", "start_time", "end_time", "duration_minutes", "location"}).
			AddRow(1, "CS101", 1, "09:00", "10:15", 75, "Hall A").
			AddRow(2, "CS101", 3, "09:00", nil, nil, nil))

	classes, err := repo.ListWithSchedules(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Len(t, classes[0].Schedules, 2)
	assert.Equal(t, models.Weekday(1), classes[0].Schedules[0].Weekday)
	assert.Nil(t, classes[0].Schedules[1].EndTime)
	assert.NotNil(t, classes[1].Schedules)
	assert.Empty(t, classes[1].Schedules)
	assert.Equal(t, models.CourseTypeGeneral, classes[1].CourseType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListDemandAlerts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE demand_status IN ($1, $2) ORDER BY updated_at DESC, id ASC`)).
		WithArgs("NEAR", "FULL").
		WillReturnRows(sqlmock.NewRows(classRowColumns).
			AddRow("CS101", "CS101", "Intro", "Lee", 3, 2, 2, "CS", "REQUIRED_MAJOR", "FULL", now, now))

	alerts, err := repo.ListDemandAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.DemandFull, alerts[0].DemandStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryUpdateDemandReportsChange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	query := regexp.QuoteMeta(`UPDATE classes SET enrolled = $2, demand_status = $3, updated_at = $4`)
	mock.ExpectExec(query).
		WithArgs("CS101", 2, "FULL", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).
		WithArgs("CS101", 2, "FULL", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.UpdateDemand(context.Background(), "CS101", 2, models.DemandFull, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.UpdateDemand(context.Background(), "CS101", 2, models.DemandFull, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryUpsertReplacesSchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	end := "10:15"
	duration := 75
	class := models.Class{ID: "CS101", Code: "CS101", Name: "Intro", Professor: "Lee", Credits: 3, Capacity: 40, Department: "CS", CourseType: models.CourseTypeRequiredMajor}
	schedules := []models.ClassSchedule{{Weekday: 1, StartTime: "09:00", EndTime: &end, DurationMinutes: &duration}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO classes`)).
		WithArgs("CS101", "CS101", "Intro", "Lee", 3, 40, 0, "CS", "REQUIRED_MAJOR", "NORMAL", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM class_schedules WHERE class_id = $1`)).
		WithArgs("CS101").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO class_schedules`)).
		WithArgs("CS101", 1, "09:00", "10:15", 75, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert(context.Background(), class, schedules))
	assert.NoError(t, mock.ExpectationsWereMet())
}
