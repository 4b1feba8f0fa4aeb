package redis

import (
	"context"
	"time"

	"ecopass/internal/domain"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireUserTripLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseUserTripLock(ctx context.Context, userID string) error
}

// CacheStoreInterface defines the interface for cache operations.
type CacheStoreInterface interface {
	GetStations(ctx context.Context, lineNumber int) ([]domain.Station, error)
	SetStations(ctx context.Context, lineNumber int, stations []domain.Station) error
	GetParkingLots(ctx context.Context) ([]domain.ParkingLot, error)
	SetParkingLots(ctx context.Context, lots []domain.ParkingLot) error
	GetDashboardStats(ctx context.Context) (*CachedStats, error)
	SetDashboardStats(ctx context.Context, stats *CachedStats) error
	InvalidateDashboardStats(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
