package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ymango/ymango/internal/models"
	apperrors "github.com/ymango/ymango/pkg/errors"
)

func TestUserServiceFindByEmail(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()

	_, found, err := env.users.FindByEmail(ctx, "test@test.com")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, env.db.Create(&models.User{
		Email:    "test@test.com",
		Password: "hash",
		Status:   models.UserStatusActive,
		Profile:  &models.UserProfile{Username: "tester"},
	}).Error)

	user, found, err := env.users.FindByEmail(ctx, " test@test.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "test@test.com", user.Email)
	require.NotNil(t, user.Profile)
	require.Equal(t, "tester", user.Profile.Username)

	_, found, err = env.users.FindByEmail(ctx, "TEST@test.com")
	require.NoError(t, err)
	require.False(t, found)
}

func TestUserServiceGetUserNotFound(t *testing.T) {
	env := newTestServices(t)

	_, err := env.users.GetUser(context.Background(), "missing@test.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "사용자를 찾을 수 없습니다.", appErr.Message)
	require.Equal(t, 404, appErr.StatusCode)
}

func TestNewUserServiceRequiresRepository(t *testing.T) {
	_, err := NewUserService(nil)
	require.Error(t, err)
}
