package repository

import (
	"context"

	"ecopass/internal/domain"
)

// StationRepository defines read-only lookups over station and
// parking-lot reference data.
type StationRepository interface {
	// ListStations retrieves all stations, optionally restricted to a
	// line (0 means all lines).
	ListStations(ctx context.Context, lineNumber int) ([]domain.Station, error)

	// FindNearby retrieves stations within radiusMeters of the given
	// point, closest first.
	FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.StationDistance, error)

	// ListParkingLots retrieves all park-and-ride lots.
	ListParkingLots(ctx context.Context) ([]domain.ParkingLot, error)
}
