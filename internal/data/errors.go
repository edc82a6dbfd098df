package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")

	// Task repository sentinels.
	ErrTaskNotFound = errors.New("task not found")

	// Leave repository sentinels.
	ErrLeaveNotFound = errors.New("leave request not found")
)
