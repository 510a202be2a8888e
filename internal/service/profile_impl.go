package service

import (
	"context"
	"fmt"
	"time"

	"birthday-server/internal/config"
	"birthday-server/internal/interfaces"
	"birthday-server/internal/models"

	"go.uber.org/zap"
)

// Compile-time check to ensure profileServiceImpl implements ProfileService
var _ ProfileService = (*profileServiceImpl)(nil)

// profileServiceImpl implements the ProfileService interface.
type profileServiceImpl struct {
	userRepo interfaces.UserRepository
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewProfileService creates a new instance of profileServiceImpl.
func NewProfileService(userRepo interfaces.UserRepository, cfg *config.Config, logger *zap.Logger) ProfileService {
	return &profileServiceImpl{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.Named("ProfileService"),
		now:      time.Now,
	}
}

// UpdateProfile overwrites the mutable profile fields. Username, password
// and id are immutable via this path.
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, user *models.User, name, surname string, birthday time.Time) (*models.User, error) {
	logFields := []zap.Field{zap.String("userID", user.ID.String())}
	s.logger.Info("Updating user profile", logFields...)

	if err := checkBirthday(birthday, s.now()); err != nil {
		s.logger.Warn("Profile update attempt with future birthday", append(logFields, zap.Time("birthday", birthday))...)
		return nil, err
	}

	updated := *user
	updated.Name = name
	updated.Surname = surname
	updated.Birthday = birthday

	result, err := s.userRepo.UpdateProfile(ctx, &updated)
	if err != nil {
		s.logger.Error("Failed to update profile via repository", append(logFields, zap.Error(err))...)
		return nil, err
	}

	s.logger.Info("User profile updated", logFields...)
	return result, nil
}

// ChangePassword verifies the old password and replaces it with the new one.
func (s *profileServiceImpl) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) (*models.User, error) {
	logFields := []zap.Field{zap.String("userID", user.ID.String())}
	s.logger.Info("Changing user password", logFields...)

	if !checkPasswordHash(oldPassword, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Password change failed: wrong current password", logFields...)
		return nil, models.ErrWrongPassword
	}

	// Semantic no-op check: the new password is rejected when it verifies
	// against the current hash, not just when the strings are equal.
	if checkPasswordHash(newPassword, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Password change failed: new password matches the current one", logFields...)
		return nil, models.ErrPasswordUnchanged
	}

	newHash, err := hashPassword(newPassword, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash new password", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
		s.logger.Error("Failed to update password hash via repository", append(logFields, zap.Error(err))...)
		return nil, err
	}

	updated := *user
	updated.PasswordHash = newHash

	s.logger.Info("User password changed", logFields...)
	return &updated, nil
}
