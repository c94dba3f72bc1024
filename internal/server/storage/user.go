package storage

import (
	"context"

	"github.com/iudanet/expensekeeper/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user and sets its assigned ID
	// Returns ErrUsernameTaken or ErrEmailTaken on unique violations
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByLogin retrieves user by username or email
	// Returns ErrUserNotFound if no user matches
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)

	// UpdateUser updates username, email and password hash
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrUsernameTaken or ErrEmailTaken on unique violations
	UpdateUser(ctx context.Context, user *models.User) error
}
