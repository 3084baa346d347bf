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

// InterestRepository persists course interests and keeps the class counter in step.
type InterestRepository struct {
	db *sqlx.DB
}

// NewInterestRepository constructs an interest repository.
func NewInterestRepository(db *sqlx.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

// Toggle flips the interest of userID in classID. The class row is locked for
// the whole transaction, which serialises toggles per class while toggles on
// other classes proceed. Returns sql.ErrNoRows when the class does not exist.
func (r *InterestRepository) Toggle(ctx context.Context, userID, classID string) (outcome *models.ToggleOutcome, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin interest toggle: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked models.ToggleOutcome
	const lockQuery = `SELECT id, enrolled, capacity FROM classes WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &locked, lockQuery, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock class %s: %w", classID, err)
	}

	var existingID string
	const findQuery = `SELECT id FROM course_interests WHERE user_id = $1 AND class_id = $2`
	err = tx.GetContext(ctx, &existingID, findQuery, userID, classID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("find interest: %w", err)
	}
	present := err == nil
	err = nil

	var result models.ToggleOutcome
	if present {
		if _, err = tx.ExecContext(ctx, `DELETE FROM course_interests WHERE id = $1`, existingID); err != nil {
			return nil, fmt.Errorf("delete interest: %w", err)
		}
		const decrement = `UPDATE classes SET enrolled = GREATEST(enrolled - 1, 0) WHERE id = $1 RETURNING id, enrolled, capacity`
		if err = tx.GetContext(ctx, &result, decrement, classID); err != nil {
			return nil, fmt.Errorf("decrement enrolled: %w", err)
		}
		result.IsInterested = false
	} else {
		now := time.Now().UTC()
		const insert = `INSERT INTO course_interests (id, user_id, class_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4) ON CONFLICT (user_id, class_id) DO NOTHING`
		if _, err = tx.ExecContext(ctx, insert, uuid.NewString(), userID, classID, now); err != nil {
			return nil, fmt.Errorf("insert interest: %w", err)
		}
		const increment = `UPDATE classes SET enrolled = enrolled + 1 WHERE id = $1 RETURNING id, enrolled, capacity`
		if err = tx.GetContext(ctx, &result, increment, classID); err != nil {
			return nil, fmt.Errorf("increment enrolled: %w", err)
		}
		result.IsInterested = true
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit interest toggle: %w", err)
	}
	return &result, nil
}

// ListClassIDsByUser returns the class ids the user is interested in, ascending.
func (r *InterestRepository) ListClassIDsByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT class_id FROM course_interests WHERE user_id = $1 ORDER BY class_id ASC`
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	return ids, nil
}

// CountByClass counts interest rows referencing the class.
func (r *InterestRepository) CountByClass(ctx context.Context, classID string) (int, error) {
	const query = `SELECT COUNT(*) FROM course_interests WHERE class_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, classID); err != nil {
		return 0, fmt.Errorf("count interests %s: %w", classID, err)
	}
	return count, nil
}
