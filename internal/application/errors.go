package application

import "errors"

// Use-case error taxonomy. All of these are recoverable from the
// caller's perspective; the HTTP layer maps each kind to a status.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserInactive     = errors.New("user has been deactivated and is not available")
	ErrEmailInUse       = errors.New("email is already in use by an active user")
	ErrInvalidInput     = errors.New("missing required parameter")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidRole      = errors.New("invalid user role")
	ErrNotDeliveryStaff = errors.New("profile photos are only supported for delivery staff")
)
