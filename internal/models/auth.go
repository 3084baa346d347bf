package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT payload for access tokens. RegisteredClaims.ID
// carries the token id used for logout revocation.
type JWTClaims struct {
	UserID    string `json:"user_id"`
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}
