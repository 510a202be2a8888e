package service

import (
	"context"
	"time"

	"birthday-server/internal/domain"
	"birthday-server/internal/models"
)

// SignupInput carries the fields of a registration request. Format validation
// (username pattern, field lengths) happens at the transport layer; the
// service is responsible for the birthday rule and username uniqueness.
type SignupInput struct {
	Username string
	Password string
	Name     string
	Surname  string
	Birthday time.Time
}

// AuthService defines the interface for authentication logic.
type AuthService interface {
	// Signup registers a new user. Returns models.ErrInvalidBirthday for a
	// birthday in the future and models.ErrUsernameTaken for a duplicate
	// username, including the concurrent-signup race.
	Signup(ctx context.Context, input SignupInput) (*models.User, error)

	// Signin verifies the credentials and issues an access token. A missing
	// user and a wrong password both surface models.ErrInvalidCredentials.
	Signin(ctx context.Context, username, password string) (*models.Token, error)

	// VerifyAccessToken parses and validates an access token string and
	// returns its claims.
	VerifyAccessToken(ctx context.Context, tokenString string) (*domain.Claims, error)

	// ResolveUser verifies the token and loads the user it names. Any
	// failure, including a valid token naming a since-deleted user, surfaces
	// as a token/unauthorized error.
	ResolveUser(ctx context.Context, tokenString string) (*models.User, error)
}

// ProfileService defines the interface for profile operations on an already
// authenticated user.
type ProfileService interface {
	// UpdateProfile overwrites name, surname and birthday. Returns
	// models.ErrInvalidBirthday for a birthday in the future.
	UpdateProfile(ctx context.Context, user *models.User, name, surname string, birthday time.Time) (*models.User, error)

	// ChangePassword replaces the user's password. Returns
	// models.ErrWrongPassword when oldPassword does not verify and
	// models.ErrPasswordUnchanged when newPassword verifies against the
	// current hash.
	ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) (*models.User, error)
}

// SubscriptionService defines the interface for the subscription ledger and
// the birthday notification query.
type SubscriptionService interface {
	// Subscribe adds an edge from the subscriber to the user named by
	// targetUsername and returns the target.
	Subscribe(ctx context.Context, subscriber *models.User, targetUsername string) (*models.User, error)

	// Unsubscribe removes the edge to the user named by targetUsername and
	// returns the target.
	Unsubscribe(ctx context.Context, subscriber *models.User, targetUsername string) (*models.User, error)

	// ListSubscriptions returns the users the subscriber follows, in
	// insertion order.
	ListSubscriptions(ctx context.Context, subscriber *models.User) ([]models.User, error)

	// Notifications returns the subscribed users whose birthdays fall on the
	// current date and on the next day.
	Notifications(ctx context.Context, subscriber *models.User) (*models.Notifications, error)
}
