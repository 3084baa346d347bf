package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-registration-api/internal/models"
)

const (
	selectUser = `SELECT id, student_id, password_hash, name, major, created_at, updated_at FROM users`
	insertUser = `INSERT INTO users (id, student_id, password_hash, name, major, created_at, updated_at)
VALUES (:id, :student_id, :password_hash, :name, :major, :created_at, :updated_at)`
)

// UserRepository stores student accounts. Lookups that match nothing return
// sql.ErrNoRows unwrapped so callers can tell "unknown student" from failures.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByStudentID looks a student up by the login identifier.
func (r *UserRepository) FindByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return r.findOne(ctx, "student_id", studentID)
}

// FindByID looks a student up by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, selectUser+` WHERE `+column+` = $1 LIMIT 1`, value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, sql.ErrNoRows
	case err != nil:
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return &user, nil
}

// Create inserts user, filling in id and timestamps. A duplicate student id
// surfaces as the driver's unique-violation error.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.db.NamedExecContext(ctx, insertUser, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
