package auth

import (
	"crypto/subtle"
	"errors"

	"storefront-service/config"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator gates access to the admin panel. The storefront itself has
// no accounts; this exists only as a view-access gate.
type Authenticator interface {
	Authenticate(email, password string) error
}

// CredentialAuthenticator checks a single configured admin credential pair.
// The password is compared against a bcrypt hash; no plaintext literal
// lives in the binary.
type CredentialAuthenticator struct {
	email        string
	passwordHash string
}

// NewCredentialAuthenticator builds the authenticator from config. With an
// empty email or hash every login attempt fails.
func NewCredentialAuthenticator(cfg config.AdminConfig) *CredentialAuthenticator {
	return &CredentialAuthenticator{
		email:        cfg.Email,
		passwordHash: cfg.PasswordHash,
	}
}

func (a *CredentialAuthenticator) Authenticate(email, password string) error {
	if a.email == "" || a.passwordHash == "" {
		return ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) != 1 {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
