package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserContextRequired is returned when an operation needs an
	// authenticated user and none is present in the context
	ErrUserContextRequired = errors.New("user context required")

	// ErrInvalidCredentials is returned when login fails. The same error is
	// used for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole is returned when an invalid role is provided
	ErrInvalidRole = errors.New("invalid role")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrUserInactive is returned when an inactive user attempts to log in
	ErrUserInactive = errors.New("user account is inactive")

	// ErrEmailTaken is returned when registering with an email already in use
	ErrEmailTaken = errors.New("email already in use")

	// ErrCannotRemoveLastAdmin is returned when deleting or demoting the last admin
	ErrCannotRemoveLastAdmin = errors.New("cannot remove the last admin")

	// ErrInvalidDateRange is returned when a contract's start date is after its end date
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)
