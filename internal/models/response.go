package models

// ErrorResponse is the standard JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Machine-readable error codes used in ErrorResponse.Code.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeDuplicateUser    = "DUPLICATE_USER"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeInternal         = "INTERNAL_ERROR"
)
