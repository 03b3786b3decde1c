package userRepo

import (
	"context"

	"medconnect/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Create inserts a new user record. A taken email yields repository.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// UpdateFCMToken stores the device token used for push notifications.
	UpdateFCMToken(ctx context.Context, id, token string) error
	EnsureIndexes(ctx context.Context) error
}
