package repository

import (
	"context"

	"ecopass/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// AddPoints credits points to the user's balance.
	AddPoints(ctx context.Context, userID string, points int) error
}
