package interfaces

import (
	"context"

	"birthday-server/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	// CreateUser inserts a new user and fills in the generated ID and
	// timestamps. Returns models.ErrUsernameTaken on a duplicate username,
	// including the case where a concurrent signup won the race.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves a user by their username.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves a user by their ID.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// UpdateProfile overwrites the mutable profile fields (name, surname,
	// birthday) and returns the refreshed record.
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newPasswordHash string) error
}
