package service

import (
	"github.com/google/uuid"
)

// Claims is the identity carried by a signed token: who the token was
// issued to and when it stops being valid. Tokens are immutable once
// issued; verification is signature + expiry only.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService defines the interface for issuing and verifying signed,
// time-limited identity tokens. This abstracts the token format (JWT)
// from the use cases and the channel handshake.
type TokenService interface {
	// Sign issues a token for the given identity.
	Sign(userID uuid.UUID, email string) (string, error)

	// Verify checks signature and expiry and returns the embedded
	// claims, or an error for any invalid/expired/malformed token.
	Verify(token string) (*Claims, error)
}
