package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authadapter "dayplanner/internal/adapters/auth"
	"dayplanner/internal/domain"
)

func newAuthFixture() (*fakeUserRepo, domain.AuthService, domain.TokenVerifier) {
	users := newFakeUserRepo()
	hasher := authadapter.NewBcryptHasher(bcrypt.MinCost)
	issuer, verifier := authadapter.NewJWTCodec("test-secret")
	svc := NewAuthService(users, hasher, issuer, time.Hour, testTimeout)
	return users, svc, verifier
}

func TestSignUp(t *testing.T) {
	t.Run("creates a user with a hashed password", func(t *testing.T) {
		_, svc, _ := newAuthFixture()

		user, err := svc.SignUp(context.Background(), "  Amy@Example.COM ", "supersecret", "Amy")
		require.NoError(t, err)
		assert.Equal(t, "amy@example.com", user.Email)
		assert.Equal(t, "Amy", user.Name)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.Salt)
		assert.NotEqual(t, "supersecret", user.PasswordHash)
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		_, svc, _ := newAuthFixture()
		_, err := svc.SignUp(context.Background(), "not-an-email", "supersecret", "Amy")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, svc, _ := newAuthFixture()
		_, err := svc.SignUp(context.Background(), "amy@example.com", "short", "Amy")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		_, svc, _ := newAuthFixture()
		_, err := svc.SignUp(context.Background(), "amy@example.com", "supersecret", "Amy")
		require.NoError(t, err)
		_, err = svc.SignUp(context.Background(), "amy@example.com", "supersecret", "Amy 2")
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestLogin(t *testing.T) {
	t.Run("returns a verifiable token", func(t *testing.T) {
		_, svc, verifier := newAuthFixture()
		created, err := svc.SignUp(context.Background(), "amy@example.com", "supersecret", "Amy")
		require.NoError(t, err)

		token, user, err := svc.Login(context.Background(), "amy@example.com", "supersecret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, created.ID, user.ID)

		subject, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, svc, _ := newAuthFixture()
		_, err := svc.SignUp(context.Background(), "amy@example.com", "supersecret", "Amy")
		require.NoError(t, err)

		_, _, err = svc.Login(context.Background(), "amy@example.com", "wrong-password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, svc, _ := newAuthFixture()
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "supersecret")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
