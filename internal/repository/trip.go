package repository

import (
	"context"
	"time"

	"ecopass/internal/domain"
)

// TripFilter narrows admin trip listings. Zero values mean "no filter".
type TripFilter struct {
	Status domain.TripStatus
	UserID string
	From   time.Time
	To     time.Time
}

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip. Returns ErrActiveTripExists when the
	// user already holds an active trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetActiveByUserID retrieves the user's trip in DRIVING or
	// TRANSFERRED status. Returns nil if no active trip exists.
	GetActiveByUserID(ctx context.Context, userID string) (*domain.Trip, error)

	// Update persists changes to an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// ListByStatus retrieves trips with the given status, newest first,
	// along with the total count for pagination.
	ListByStatus(ctx context.Context, status domain.TripStatus, limit, offset int) ([]*domain.Trip, int, error)

	// ListByUser retrieves a user's trips, newest first, optionally
	// filtered by status (empty status means all), with total count.
	ListByUser(ctx context.Context, userID string, status domain.TripStatus, limit, offset int) ([]*domain.Trip, int, error)

	// ListWithFilters retrieves trips matching the filter, newest first,
	// with total count.
	ListWithFilters(ctx context.Context, filter TripFilter, limit, offset int) ([]*domain.Trip, int, error)

	// CountByStatus counts trips with the given status.
	CountByStatus(ctx context.Context, status domain.TripStatus) (int, error)

	// CountAll counts all trips.
	CountAll(ctx context.Context) (int, error)
}
