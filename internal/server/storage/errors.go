package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates that a user with this username already exists
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken indicates that a user with this email already exists
	ErrEmailTaken = errors.New("email already exists")

	// ErrExpenseNotFound indicates that the expense does not exist or is not
	// owned by the requesting user. The two cases are deliberately not
	// distinguishable
	ErrExpenseNotFound = errors.New("expense not found")
)
