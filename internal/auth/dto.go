package auth

import (
	"time"

	"github.com/guiamercado/guiamercado-backend/internal/users"
)

// SignupRequest is the body accepted by the signup endpoint.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the session token the controller turns into a cookie.
type LoginResult struct {
	User      *users.UserDTO
	Token     string
	SessionID string
	ExpiresAt time.Time
}
