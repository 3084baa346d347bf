package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-registration-api/internal/models"
)

const classColumns = `id, code, name, professor, credits, capacity, enrolled, department, course_type, demand_status, created_at, updated_at`

const scheduleColumns = `id, class_id, weekday, start_time, end_time, duration_minutes, location`

// ClassRepository manages persistence for catalog classes and their schedules.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns every class ordered by id.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY id ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListWithSchedules returns every class with its schedule blocks nested.
func (r *ClassRepository) ListWithSchedules(ctx context.Context) ([]models.ClassWithSchedules, error) {
	classes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + scheduleColumns + ` FROM class_schedules ORDER BY class_id ASC, weekday ASC, start_time ASC, id ASC`
	var schedules []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list class schedules: %w", err)
	}

	return nestSchedules(classes, schedules), nil
}

// FindByIDs loads the given classes with their schedules. Unknown ids are
// omitted from the result.
func (r *ClassRepository) FindByIDs(ctx context.Context, ids []string) ([]models.ClassWithSchedules, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + classColumns + ` FROM classes WHERE id = ANY($1) ORDER BY id ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find classes by id: %w", err)
	}

	scheduleQuery := `SELECT ` + scheduleColumns + ` FROM class_schedules WHERE class_id = ANY($1) ORDER BY class_id ASC, weekday ASC, start_time ASC, id ASC`
	var schedules []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &schedules, scheduleQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find class schedules: %w", err)
	}

	return nestSchedules(classes, schedules), nil
}

// ListDemandAlerts returns classes currently flagged NEAR or FULL, most recently updated first.
func (r *ClassRepository) ListDemandAlerts(ctx context.Context) ([]models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE demand_status IN ($1, $2) ORDER BY updated_at DESC, id ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, models.DemandNear, models.DemandFull); err != nil {
		return nil, fmt.Errorf("list demand alerts: %w", err)
	}
	return classes, nil
}

// ListCapacities returns the fields aggregation needs for every class, ordered by id.
func (r *ClassRepository) ListCapacities(ctx context.Context) ([]models.ClassCapacity, error) {
	const query = `SELECT id, capacity, enrolled, demand_status FROM classes ORDER BY id ASC`
	var rows []models.ClassCapacity
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list class capacities: %w", err)
	}
	return rows, nil
}

// UpdateDemand writes the recomputed counter and status. The row is touched
// only when a value differs, and the return value reports whether it was.
func (r *ClassRepository) UpdateDemand(ctx context.Context, id string, enrolled int, status models.DemandStatus, at time.Time) (bool, error) {
	const query = `UPDATE classes SET enrolled = $2, demand_status = $3, updated_at = $4
WHERE id = $1 AND (enrolled <> $2 OR demand_status <> $3)`
	res, err := r.db.ExecContext(ctx, query, id, enrolled, status, at)
	if err != nil {
		return false, fmt.Errorf("update class demand %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update class demand rows %s: %w", id, err)
	}
	return affected > 0, nil
}

// Upsert inserts or refreshes a class keyed on its id and replaces its
// schedule set in one transaction. Enrolled and demand status of an existing
// row are left untouched.
func (r *ClassRepository) Upsert(ctx context.Context, class models.Class, schedules []models.ClassSchedule) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin class upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const upsertQuery = `INSERT INTO classes (id, code, name, professor, credits, capacity, enrolled, department, course_type, demand_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name, professor = EXCLUDED.professor,
credits = EXCLUDED.credits, capacity = EXCLUDED.capacity, department = EXCLUDED.department,
course_type = EXCLUDED.course_type, updated_at = EXCLUDED.updated_at`
	if _, err = tx.ExecContext(ctx, upsertQuery,
		class.ID, class.Code, class.Name, class.Professor, class.Credits, class.Capacity,
		class.Enrolled, class.Department, class.CourseType, models.DemandNormal, now,
	); err != nil {
		return fmt.Errorf("upsert class %s: %w", class.ID, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM class_schedules WHERE class_id = $1`, class.ID); err != nil {
		return fmt.Errorf("clear schedules %s: %w", class.ID, err)
	}

	const insertSchedule = `INSERT INTO class_schedules (class_id, weekday, start_time, end_time, duration_minutes, location)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, s := range schedules {
		if _, err = tx.ExecContext(ctx, insertSchedule, class.ID, s.Weekday, s.StartTime, s.EndTime, s.DurationMinutes, s.Location); err != nil {
			return fmt.Errorf("insert schedule %s: %w", class.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit class upsert %s: %w", class.ID, err)
	}
	return nil
}

func nestSchedules(classes []models.Class, schedules []models.ClassSchedule) []models.ClassWithSchedules {
	byClass := make(map[string][]models.ClassSchedule, len(classes))
	for _, s := range schedules {
		byClass[s.ClassID] = append(byClass[s.ClassID], s)
	}

	result := make([]models.ClassWithSchedules, 0, len(classes))
	for _, c := range classes {
		items := byClass[c.ID]
		if items == nil {
			items = []models.ClassSchedule{}
		}
		result = append(result, models.ClassWithSchedules{Class: c, Schedules: items})
	}
	return result
}
