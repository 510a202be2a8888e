package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"birthday-server/internal/interfaces/mocks"
	"birthday-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProfileService(userRepo *mocks.UserRepository, now func() time.Time) *profileServiceImpl {
	return &profileServiceImpl{
		userRepo: userRepo,
		cfg:      testConfig(),
		logger:   zap.NewNop(),
		now:      now,
	}
}

func profileTestUser(t *testing.T, pepper string) *models.User {
	t.Helper()
	hash, err := hashPassword("oldpassword", pepper)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "test_user",
		PasswordHash: hash,
		Name:         "John",
		Surname:      "Doe",
		Birthday:     time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestProfileService(userRepo, func() time.Time { return now })

	user := profileTestUser(t, svc.cfg.PasswordPepper)
	newBirthday := time.Date(1991, time.July, 2, 0, 0, 0, 0, time.UTC)

	userRepo.On("UpdateProfile", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*models.User)
		assert.Equal(t, user.ID, u.ID)
		assert.Equal(t, "Jane", u.Name)
		assert.Equal(t, "Smith", u.Surname)
		assert.Equal(t, newBirthday, u.Birthday)
	}).Return(&models.User{
		ID:       user.ID,
		Username: user.Username,
		Name:     "Jane",
		Surname:  "Smith",
		Birthday: newBirthday,
	}, nil).Once()

	updated, err := svc.UpdateProfile(ctx, user, "Jane", "Smith", newBirthday)
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, "Smith", updated.Surname)
	assert.Equal(t, newBirthday, updated.Birthday)
	// The caller's copy stays untouched until the repository confirms.
	assert.Equal(t, "John", user.Name)
	userRepo.AssertExpectations(t)
}

func TestUpdateProfile_FutureBirthday(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestProfileService(userRepo, func() time.Time { return now })

	user := profileTestUser(t, svc.cfg.PasswordPepper)

	_, err := svc.UpdateProfile(ctx, user, "Jane", "Smith", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidBirthday))
	userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func TestChangePassword_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestProfileService(userRepo, func() time.Time { return now })

	user := profileTestUser(t, svc.cfg.PasswordPepper)

	userRepo.On("UpdatePasswordHash", ctx, user.ID, mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		newHash := args.Get(2).(string)
		assert.True(t, checkPasswordHash("newpassword", newHash, svc.cfg.PasswordPepper), "Persisted hash should verify against the new password")
	}).Return(nil).Once()

	updated, err := svc.ChangePassword(ctx, user, "oldpassword", "newpassword")
	require.NoError(t, err)
	assert.True(t, checkPasswordHash("newpassword", updated.PasswordHash, svc.cfg.PasswordPepper))
	assert.False(t, checkPasswordHash("oldpassword", updated.PasswordHash, svc.cfg.PasswordPepper))
	userRepo.AssertExpectations(t)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestProfileService(userRepo, func() time.Time { return now })

	user := profileTestUser(t, svc.cfg.PasswordPepper)

	_, err := svc.ChangePassword(ctx, user, "wrongpassword", "newpassword")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrWrongPassword))
	userRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_Unchanged(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestProfileService(userRepo, func() time.Time { return now })

	user := profileTestUser(t, svc.cfg.PasswordPepper)

	// The new password equals the old one, so it verifies against the
	// current hash and must be rejected.
	_, err := svc.ChangePassword(ctx, user, "oldpassword", "oldpassword")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPasswordUnchanged))
	userRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}
