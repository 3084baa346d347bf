package models

import "time"

// CourseInterest records that a user intends to register for a class.
type CourseInterest struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ToggleOutcome is the state of a class after an interest toggle commits.
type ToggleOutcome struct {
	IsInterested bool
	ClassID      string `db:"id"`
	Enrolled     int    `db:"enrolled"`
	Capacity     int    `db:"capacity"`
}
