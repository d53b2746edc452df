package realtime

import (
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/service"

	"github.com/google/uuid"
)

// Authenticator validates the identity token presented at channel
// connect time. It runs exactly once per channel; an admitted channel is
// never re-checked, so a token expiring mid-session does not disconnect.
type Authenticator struct {
	tokens service.TokenService
}

// NewAuthenticator is the constructor for Authenticator.
func NewAuthenticator(tokens service.TokenService) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate verifies the token and returns the owning user id. Every
// failure collapses to the same generic authentication error so the
// handshake response cannot be used as a token-validity oracle.
func (a *Authenticator) Authenticate(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, domainerrors.ErrAuthenticationFailed
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		return uuid.Nil, domainerrors.ErrAuthenticationFailed
	}

	return claims.UserID, nil
}
