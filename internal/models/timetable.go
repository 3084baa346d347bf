package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Timetable is a named snapshot of chosen courses. Courses is stored verbatim
// and never reconciled with the live catalog.
type Timetable struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	Name      string         `db:"name" json:"name"`
	Courses   types.JSONText `db:"courses" json:"courses"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
