package service

import (
	"context"

	"ecopass/internal/domain"
	"ecopass/internal/geo"
	"ecopass/internal/redis"
	"ecopass/internal/repository"
)

const (
	// maxNearbyRadiusMeters caps nearby searches to a city-scale area.
	maxNearbyRadiusMeters = 10000.0
	defaultNearbyLimit    = 5
	maxNearbyLimit        = 20
)

// StationService serves read-only station and parking-lot reference
// data, cached in redis.
type StationService struct {
	stationRepo repository.StationRepository
	cache       redis.CacheStoreInterface
}

// NewStationService creates a new StationService.
func NewStationService(stationRepo repository.StationRepository, cache redis.CacheStoreInterface) *StationService {
	return &StationService{
		stationRepo: stationRepo,
		cache:       cache,
	}
}

// ListStations retrieves stations, optionally restricted to a line
// (0 means all lines). Cache failures fall through to the store.
func (s *StationService) ListStations(ctx context.Context, lineNumber int) ([]domain.Station, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetStations(ctx, lineNumber); err == nil && cached != nil {
			return cached, nil
		}
	}

	stations, err := s.stationRepo.ListStations(ctx, lineNumber)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetStations(ctx, lineNumber, stations)
	}

	return stations, nil
}

// FindNearby retrieves stations within radiusMeters of the given point,
// closest first. Results are not cached: the query point varies per call.
func (s *StationService) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.StationDistance, error) {
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return nil, ErrInvalidLocation
	}
	if radiusMeters <= 0 || radiusMeters > maxNearbyRadiusMeters {
		return nil, ErrInvalidRadius
	}

	if limit <= 0 {
		limit = defaultNearbyLimit
	}
	if limit > maxNearbyLimit {
		limit = maxNearbyLimit
	}

	return s.stationRepo.FindNearby(ctx, lat, lng, radiusMeters, limit)
}

// ListParkingLots retrieves all park-and-ride lots.
func (s *StationService) ListParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetParkingLots(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	lots, err := s.stationRepo.ListParkingLots(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetParkingLots(ctx, lots)
	}

	return lots, nil
}
