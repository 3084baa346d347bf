package dto

import "github.com/noah-isme/course-registration-api/internal/models"

// SignupRequest registers a new student account.
type SignupRequest struct {
	StudentID string `json:"studentId" validate:"required,max=32"`
	Password  string `json:"password" validate:"required,min=6"`
	Name      string `json:"name" validate:"required,max=100"`
	Major     string `json:"major" validate:"omitempty,max=100"`
}

// LoginRequest holds credentials for authenticating a student.
type LoginRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Message   string          `json:"message"`
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expiresIn"`
	User      models.UserInfo `json:"user"`
}
