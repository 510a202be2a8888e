package models

import "errors"

// Domain errors. Repositories and services return these so handlers can map
// them to HTTP statuses without inspecting storage-level errors.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUnauthorized       = errors.New("unauthorized")

	// Token errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Profile errors
	ErrInvalidBirthday   = errors.New("birthday must not be in the future")
	ErrWrongPassword     = errors.New("wrong password")
	ErrPasswordUnchanged = errors.New("new password matches the current one")

	// Subscription errors
	ErrAlreadySubscribed    = errors.New("already subscribed")
	ErrSubscriptionNotFound = errors.New("there is no subscription")

	// Generic
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
)
