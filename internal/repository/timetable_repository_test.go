package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/models"
)

func TestTimetableRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM timetables WHERE user_id = $1 ORDER BY created_at DESC, id ASC`)).
		WithArgs("user-a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "courses", "created_at", "updated_at"}).
			AddRow("tt-2", "user-a", "Plan B", []byte(`[{"code":"CS101"}]`), now, now).
			AddRow("tt-1", "user-a", "Plan A", []byte(`[{"code":"MATH201"}]`), now.Add(-time.Hour), now))

	items, err := repo.ListByUser(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "tt-2", items[0].ID)
	assert.JSONEq(t, `[{"code":"CS101"}]`, string(items[0].Courses))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO timetables (id, user_id, name, courses, created_at, updated_at)`)).
		WithArgs(sqlmock.AnyArg(), "user-a", "Plan A", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tt := &models.Timetable{UserID: "user-a", Name: "Plan A", Courses: types.JSONText(`[{"code":"CS101"}]`)}
	require.NoError(t, repo.Create(context.Background(), tt))
	assert.NotEmpty(t, tt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteOwnedScopesByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM timetables WHERE id = $1 AND user_id = $2`)).
		WithArgs("tt-b", "user-a").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteOwned(context.Background(), "tt-b", "user-a")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryFindOwnedMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM timetables WHERE id = $1 AND user_id = $2`)).
		WithArgs("tt-b", "user-a").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindOwned(context.Background(), "tt-b", "user-a")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
