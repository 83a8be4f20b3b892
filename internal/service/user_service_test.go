package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ai-gateway-be/internal/apperror"
	"ai-gateway-be/internal/dto"
	"ai-gateway-be/internal/entity"
)

func seedUserWithPassword(store *memStore, password string) *entity.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	hashStr := string(hash)
	user := seedUser(store, entity.UserRoleUser)
	user.PasswordHash = &hashStr
	return user
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUserService(factory, nopLogger{})

	user := seedUser(factory.store, entity.UserRoleUser)
	user.FirstName = "Alice"
	user.LastName = "Smith"

	first := "Alicia"
	res, err := svc.UpdateProfile(context.Background(), user.Id, &dto.UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)

	assert.Equal(t, "Alicia", res.FirstName)
	assert.Equal(t, "Smith", res.LastName)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUserService(factory, nopLogger{})
	user := seedUserWithPassword(factory.store, "old-password")

	err := svc.ChangePassword(context.Background(), user.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidCurrentPassword, apperror.From(err).Code)

	err = svc.ChangePassword(context.Background(), user.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("new-password")))
}

func TestUpdateUserStatus(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUserService(factory, nopLogger{})
	user := seedUser(factory.store, entity.UserRoleUser)

	res, err := svc.UpdateUserStatus(context.Background(), user.Id, "banned")
	require.NoError(t, err)
	assert.Equal(t, "banned", res.Status)

	_, err = svc.UpdateUserStatus(context.Background(), user.Id, "frozen")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidStatus, apperror.From(err).Code)

	_, err = svc.UpdateUserStatus(context.Background(), uuid.New(), "active")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUserNotFound, apperror.From(err).Code)
}

func TestGetProfileUnknownUser(t *testing.T) {
	factory := newFakeFactory()
	svc := NewUserService(factory, nopLogger{})

	_, err := svc.GetProfile(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeUserNotFound, apperror.From(err).Code)
}
