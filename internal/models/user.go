package models

import "time"

// User represents a student account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"studentId"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Major        string    `db:"major" json:"major"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Major     string `json:"major"`
}

// Info projects the public part of the user.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, StudentID: u.StudentID, Name: u.Name, Major: u.Major}
}
