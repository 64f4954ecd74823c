package auth

import (
	"testing"

	"storefront-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticateAcceptsConfiguredCredentials(t *testing.T) {
	a := NewCredentialAuthenticator(config.AdminConfig{
		Email:        "admin@bahacuir.com",
		PasswordHash: hashOf(t, "atelier2020"),
	})

	assert.NoError(t, a.Authenticate("admin@bahacuir.com", "atelier2020"))
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	a := NewCredentialAuthenticator(config.AdminConfig{
		Email:        "admin@bahacuir.com",
		PasswordHash: hashOf(t, "atelier2020"),
	})

	assert.ErrorIs(t, a.Authenticate("admin@bahacuir.com", "wrong"), ErrInvalidCredentials)
}

func TestAuthenticateRejectsWrongEmail(t *testing.T) {
	a := NewCredentialAuthenticator(config.AdminConfig{
		Email:        "admin@bahacuir.com",
		PasswordHash: hashOf(t, "atelier2020"),
	})

	assert.ErrorIs(t, a.Authenticate("intruder@bahacuir.com", "atelier2020"), ErrInvalidCredentials)
}

func TestAuthenticateFailsClosedWhenUnconfigured(t *testing.T) {
	a := NewCredentialAuthenticator(config.AdminConfig{})

	assert.ErrorIs(t, a.Authenticate("", ""), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Authenticate("admin@bahacuir.com", "anything"), ErrInvalidCredentials)
}
