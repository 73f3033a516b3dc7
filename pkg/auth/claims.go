package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	UserID    uuid.UUID
	Name      string
	SessionID string
}

// SessionTokenClaims is the typed JWT stored in the session cookie. The
// registered ID (jti) names the server-side session entry.
type SessionTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}
