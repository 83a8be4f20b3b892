package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
	"ai-gateway-be/internal/guard"
)

func newAuthHarness() (IAuthService, *fakeFactory, *guard.TokenIssuer) {
	factory := newFakeFactory()
	issuer := guard.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	auth := NewAuthService(factory, issuer, nil, nopLogger{})
	return auth, factory, issuer
}

func TestRegisterCreatesActiveUser(t *testing.T) {
	auth, factory, issuer := newAuthHarness()

	res, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	require.Len(t, factory.store.users, 1)
	user := factory.store.users[0]
	assert.Equal(t, entity.UserRoleUser, user.Role)
	assert.Equal(t, entity.UserStatusActive, user.Status)

	// Password is stored hashed, never verbatim.
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "hunter22", *user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("hunter22")))

	// Issued access token resolves back to the new user.
	subject, _, err := issuer.ParseSubject(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Id, subject)
}

func TestRegisterRejectsDuplicateIdentity(t *testing.T) {
	auth, factory, _ := newAuthHarness()
	seedUser(factory.store, entity.UserRoleUser)

	_, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "someone-else",
		Email:    "alice@example.com",
		Password: "password",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUserExists, apperror.From(err).Code)
	assert.Len(t, factory.store.users, 1)
}

func TestLoginVerifiesPassword(t *testing.T) {
	auth, factory, _ := newAuthHarness()

	_, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	res, err := auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.NotNil(t, factory.store.users[0].LastLoginAt)

	_, err = auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidCredentials, apperror.From(err).Code)
}

func TestLoginUnknownEmailIsInvalidCredentials(t *testing.T) {
	auth, _, _ := newAuthHarness()

	_, err := auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	// Same code as a wrong password so accounts cannot be enumerated.
	assert.Equal(t, apperror.CodeInvalidCredentials, apperror.From(err).Code)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	auth, factory, _ := newAuthHarness()

	_, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	factory.store.users[0].Status = entity.UserStatusBanned

	_, err = auth.Login(context.Background(), &dto.LoginRequest{
		Email:    "bob@example.com",
		Password: "password",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeAccountDisabled, apperror.From(err).Code)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	auth, _, issuer := newAuthHarness()

	registered, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	tokens, err := auth.Refresh(context.Background(), registered.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	subject, _, err := issuer.ParseSubject(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.Id, subject)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	auth, _, _ := newAuthHarness()

	_, err := auth.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidToken, apperror.From(err).Code)
}

func TestRefreshRejectsDisabledUser(t *testing.T) {
	auth, factory, _ := newAuthHarness()

	registered, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password",
	})
	require.NoError(t, err)

	factory.store.users[0].Status = entity.UserStatusInactive

	_, err = auth.Refresh(context.Background(), registered.Tokens.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidUser, apperror.From(err).Code)
}
