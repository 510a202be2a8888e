package database

import (
	"context"
	"errors"
	"fmt"

	"birthday-server/internal/interfaces"
	"birthday-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

const pgUniqueViolation = "23505"

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

// CreateUser inserts a new user into the database.
func (r *pgUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, password_hash, name, surname, birthday)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("username", user.Username))
	err := r.db.QueryRow(ctx, query, user.Username, user.PasswordHash, user.Name, user.Surname, user.Birthday).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// The username check in the service and this insert are not one
			// atomic step; the constraint is the backstop for concurrent
			// signups with the same username.
			r.logger.Warn("Attempted to create duplicate user by username",
				zap.String("username", user.Username),
				zap.String("constraint", pgErr.ConstraintName))
			return models.ErrUsernameTaken
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("username", user.Username))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}
	r.logger.Info("User created successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return nil
}

// GetUserByUsername retrieves a user by their username.
func (r *pgUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, name, surname, birthday, created_at, updated_at
		FROM users WHERE username = $1`
	user := &models.User{}
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("username", username))
	err := r.db.QueryRow(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.Surname, &user.Birthday, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by username", zap.String("username", username))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by username from postgres", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username from postgres: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *pgUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT id, username, password_hash, name, surname, birthday, created_at, updated_at
		FROM users WHERE id = $1`
	user := &models.User{}
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("id", id.String()))
	err := r.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.Surname, &user.Birthday, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.String("id", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id from postgres", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites the mutable profile fields and returns the
// refreshed record. Username, password hash and id are not touched here.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	query := `UPDATE users SET name = $1, surname = $2, birthday = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, username, password_hash, name, surname, birthday, created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", user.ID.String()))

	updated := &models.User{}
	err := r.db.QueryRow(ctx, query, user.Name, user.Surname, user.Birthday, user.ID).
		Scan(&updated.ID, &updated.Username, &updated.PasswordHash, &updated.Name, &updated.Surname, &updated.Birthday, &updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Attempted to update profile of non-existent user", zap.String("userID", user.ID.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to update user profile in postgres", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	r.logger.Info("User profile updated successfully", zap.String("userID", updated.ID.String()))
	return updated, nil
}

// UpdatePasswordHash replaces the stored password hash for a user.
func (r *pgUserRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", userID.String()))

	cmdTag, err := r.db.Exec(ctx, query, newPasswordHash, userID)
	if err != nil {
		r.logger.Error("Failed to update password hash in postgres", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update password of non-existent user", zap.String("userID", userID.String()))
		return models.ErrUserNotFound
	}

	r.logger.Info("User password hash updated successfully", zap.String("userID", userID.String()))
	return nil
}
