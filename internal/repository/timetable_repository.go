package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// TimetableRepository persists saved timetable snapshots. Every query is
// scoped by owner so other users' rows are indistinguishable from missing ones.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListByUser returns the user's timetables, newest first.
func (r *TimetableRepository) ListByUser(ctx context.Context, userID string) ([]models.Timetable, error) {
	const query = `SELECT id, user_id, name, courses, created_at, updated_at FROM timetables WHERE user_id = $1 ORDER BY created_at DESC, id ASC`
	timetables := []models.Timetable{}
	if err := r.db.SelectContext(ctx, &timetables, query, userID); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, nil
}

// Create stores a new snapshot, assigning id and timestamps.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	timetable.CreatedAt = now
	timetable.UpdatedAt = now

	const query = `INSERT INTO timetables (id, user_id, name, courses, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, timetable.ID, timetable.UserID, timetable.Name, timetable.Courses, timetable.CreatedAt, timetable.UpdatedAt); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// FindOwned loads a timetable only when it belongs to userID.
func (r *TimetableRepository) FindOwned(ctx context.Context, id, userID string) (*models.Timetable, error) {
	const query = `SELECT id, user_id, name, courses, created_at, updated_at FROM timetables WHERE id = $1 AND user_id = $2`
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find timetable: %w", err)
	}
	return &timetable, nil
}

// DeleteOwned removes the timetable if userID owns it and reports whether a row was deleted.
func (r *TimetableRepository) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete timetable rows: %w", err)
	}
	return affected > 0, nil
}
