package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"birthday-server/internal/config"
	"birthday-server/internal/interfaces/mocks"
	"birthday-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-jwt-secret",
		PasswordPepper: "test-pepper-for-unit-tests",
		AccessTokenTTL: 30 * time.Minute,
	}
}

// newTestAuthService builds the service around a mock repository with a
// controllable clock.
func newTestAuthService(userRepo *mocks.UserRepository, now func() time.Time) *authServiceImpl {
	return &authServiceImpl{
		userRepo: userRepo,
		cfg:      testConfig(),
		logger:   zap.NewNop(),
		now:      now,
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	password := "mysecretpassword"
	pepper := "test-pepper-for-unit-tests"

	hashedPassword, err := hashPassword(password, pepper)
	require.NoError(t, err, "hashPassword should not return an error")
	require.NotEmpty(t, hashedPassword, "hashPassword should return a non-empty string")
	assert.NotEqual(t, password, hashedPassword, "Hashed password should not equal the original password")

	assert.True(t, checkPasswordHash(password, hashedPassword, pepper), "checkPasswordHash should return true for correct password and pepper")
	assert.False(t, checkPasswordHash("wrongpassword", hashedPassword, pepper), "checkPasswordHash should return false for incorrect password")
	assert.False(t, checkPasswordHash(password, hashedPassword, "another-pepper"), "checkPasswordHash should return false for incorrect pepper")
	assert.False(t, checkPasswordHash(password, "not-a-bcrypt-hash", pepper), "checkPasswordHash should return false for invalid hash format")

	// Two hashes of the same input must differ: bcrypt salts each one.
	otherHash, err := hashPassword(password, pepper)
	require.NoError(t, err)
	assert.NotEqual(t, hashedPassword, otherHash, "bcrypt hashes of the same password should differ")
	assert.True(t, checkPasswordHash(password, otherHash, pepper))
}

func TestCheckBirthday(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)

	assert.NoError(t, checkBirthday(time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC), now), "Past birthday should be accepted")
	assert.NoError(t, checkBirthday(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), now), "Birthday equal to today should be accepted")

	err := checkBirthday(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC), now)
	require.Error(t, err, "Future birthday should be rejected")
	assert.True(t, errors.Is(err, models.ErrInvalidBirthday))
}

func TestSignup_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	input := SignupInput{
		Username: "new_user",
		Password: "password123",
		Name:     "John",
		Surname:  "Doe",
		Birthday: time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC),
	}

	userRepo.On("GetUserByUsername", ctx, "new_user").Return(nil, models.ErrUserNotFound).Once()
	userRepo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*models.User)
		u.ID = uuid.New()
	}).Return(nil).Once()

	user, err := svc.Signup(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new_user", user.Username)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, input.Password, user.PasswordHash, "Stored hash should not be the plain password")
	assert.True(t, checkPasswordHash(input.Password, user.PasswordHash, svc.cfg.PasswordPepper), "Stored hash should verify against the plain password")

	userRepo.AssertExpectations(t)
}

func TestSignup_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	existing := &models.User{ID: uuid.New(), Username: "taken_user"}
	userRepo.On("GetUserByUsername", ctx, "taken_user").Return(existing, nil).Once()

	_, err := svc.Signup(ctx, SignupInput{
		Username: "taken_user",
		Password: "password123",
		Name:     "John",
		Surname:  "Doe",
		Birthday: time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUsernameTaken))
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestSignup_RaceMapsToUsernameTaken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	// The existence check sees nothing, but the insert loses the race and
	// reports the unique violation.
	userRepo.On("GetUserByUsername", ctx, "racy_user").Return(nil, models.ErrUserNotFound).Once()
	userRepo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(models.ErrUsernameTaken).Once()

	_, err := svc.Signup(ctx, SignupInput{
		Username: "racy_user",
		Password: "password123",
		Name:     "John",
		Surname:  "Doe",
		Birthday: time.Date(1990, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUsernameTaken))
	userRepo.AssertExpectations(t)
}

func TestSignup_FutureBirthday(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	_, err := svc.Signup(ctx, SignupInput{
		Username: "future_user",
		Password: "password123",
		Name:     "John",
		Surname:  "Doe",
		Birthday: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidBirthday))
	userRepo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestSignin_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	hash, err := hashPassword("password123", svc.cfg.PasswordPepper)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Username: "test_user", PasswordHash: hash}
	userRepo.On("GetUserByUsername", ctx, "test_user").Return(user, nil).Once()

	token, err := svc.Signin(ctx, "test_user", "password123")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, now.Add(svc.cfg.AccessTokenTTL).Unix(), token.ExpiresAt, "Expiry should be now plus the configured TTL")
	userRepo.AssertExpectations(t)
}

func TestSignin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	hash, err := hashPassword("password123", svc.cfg.PasswordPepper)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Username: "test_user", PasswordHash: hash}
	userRepo.On("GetUserByUsername", ctx, "test_user").Return(user, nil).Once()

	_, err = svc.Signin(ctx, "test_user", "wrongpassword")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
}

func TestSignin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	userRepo.On("GetUserByUsername", ctx, "ghost_user").Return(nil, models.ErrUserNotFound).Once()

	// Unknown user and wrong password are indistinguishable to the caller.
	_, err := svc.Signin(ctx, "ghost_user", "password123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
}

func TestVerifyAccessToken_RoundTrip(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	token, err := svc.createAccessToken("test_user")
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "test_user", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID, "Token should carry a unique ID")
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	issuedAt := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return issuedAt })

	token, err := svc.createAccessToken("test_user")
	require.NoError(t, err)

	// Move the clock past the TTL and verify again.
	svc.now = func() time.Time { return issuedAt.Add(svc.cfg.AccessTokenTTL + time.Minute) }
	_, err = svc.VerifyAccessToken(ctx, token.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTokenExpired))
}

func TestVerifyAccessToken_Malformed(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	_, err := svc.VerifyAccessToken(ctx, "this-is-not-a-jwt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTokenMalformed))
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	token, err := svc.createAccessToken("test_user")
	require.NoError(t, err)

	svc.cfg.JWTSecret = "a-different-secret"
	_, err = svc.VerifyAccessToken(ctx, token.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTokenInvalid))
}

func TestResolveUser_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	user := &models.User{ID: uuid.New(), Username: "test_user"}
	userRepo.On("GetUserByUsername", ctx, "test_user").Return(user, nil).Once()

	token, err := svc.createAccessToken("test_user")
	require.NoError(t, err)

	resolved, err := svc.ResolveUser(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	userRepo.AssertExpectations(t)
}

func TestResolveUser_DeletedUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.UserRepository)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(userRepo, func() time.Time { return now })

	userRepo.On("GetUserByUsername", ctx, "gone_user").Return(nil, models.ErrUserNotFound).Once()

	token, err := svc.createAccessToken("gone_user")
	require.NoError(t, err)

	_, err = svc.ResolveUser(ctx, token.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTokenInvalid), "A valid token naming a missing user is an invalid token")
}
