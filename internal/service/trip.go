package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ecopass/internal/domain"
	"ecopass/internal/geo"
	"ecopass/internal/redis"
	"ecopass/internal/repository"
)

// startLockTTL bounds how long a crashed request can keep a user's
// trip-start lock.
const startLockTTL = 5 * time.Second

// TripService handles the user-facing trip lifecycle.
type TripService struct {
	tripRepo  repository.TripRepository
	lockStore redis.LockStoreInterface
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo repository.TripRepository, lockStore redis.LockStoreInterface) *TripService {
	return &TripService{
		tripRepo:  tripRepo,
		lockStore: lockStore,
	}
}

// StartTripRequest contains the parameters for starting a trip.
type StartTripRequest struct {
	UserID    string
	Latitude  float64
	Longitude float64
}

// StartTrip creates a new trip in DRIVING status. The active-trip check
// and insert run under a per-user lock, with the storage layer's partial
// unique index as the backstop against concurrent starts.
func (s *TripService) StartTrip(ctx context.Context, req StartTripRequest) (*domain.Trip, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if !geo.ValidLatitude(req.Latitude) || !geo.ValidLongitude(req.Longitude) {
		return nil, ErrInvalidLocation
	}

	if s.lockStore != nil {
		acquired, err := s.lockStore.AcquireUserTripLock(ctx, req.UserID, startLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			// Another start for the same user is in flight.
			return nil, ErrActiveTripExists
		}
		defer func() {
			_ = s.lockStore.ReleaseUserTripLock(ctx, req.UserID)
		}()
	}

	active, err := s.tripRepo.GetActiveByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveTripExists
	}

	now := time.Now().UTC()
	trip := &domain.Trip{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		StartLatitude:  req.Latitude,
		StartLongitude: req.Longitude,
		Status:         domain.TripStatusDriving,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		if errors.Is(err, repository.ErrActiveTripExists) {
			return nil, ErrActiveTripExists
		}
		return nil, err
	}

	return trip, nil
}

// TransferTripRequest contains the parameters for recording a transfer.
type TransferTripRequest struct {
	TripID    string
	UserID    string
	Latitude  float64
	Longitude float64
	ImageURL  string
}

// TransferTrip records the transit transfer waypoint on the caller's
// active trip.
func (s *TripService) TransferTrip(ctx context.Context, req TransferTripRequest) (*domain.Trip, error) {
	if err := validateMutation(req.TripID, req.UserID, req.Latitude, req.Longitude, req.ImageURL); err != nil {
		return nil, err
	}

	trip, err := s.ownedTrip(ctx, req.TripID, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := trip.Transfer(req.Latitude, req.Longitude, req.ImageURL, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// ArriveTripRequest contains the parameters for recording an arrival.
type ArriveTripRequest struct {
	TripID    string
	UserID    string
	Latitude  float64
	Longitude float64
	ImageURL  string
}

// ArriveTrip records the arrival waypoint, computes the point award from
// the full path and completes the trip. The award is frozen here; admin
// review never recomputes it.
func (s *TripService) ArriveTrip(ctx context.Context, req ArriveTripRequest) (*domain.Trip, error) {
	if err := validateMutation(req.TripID, req.UserID, req.Latitude, req.Longitude, req.ImageURL); err != nil {
		return nil, err
	}

	trip, err := s.ownedTrip(ctx, req.TripID, req.UserID)
	if err != nil {
		return nil, err
	}

	start := geo.Point{Latitude: trip.StartLatitude, Longitude: trip.StartLongitude}
	var transfer *geo.Point
	if trip.HasTransfer() {
		transfer = &geo.Point{Latitude: trip.TransferLatitude, Longitude: trip.TransferLongitude}
	}
	arrival := geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}

	total, err := geo.TripTotalDistance(start, transfer, &arrival)
	if err != nil {
		return nil, err
	}

	points, err := geo.PointsFromDistance(total)
	if err != nil {
		return nil, err
	}

	if err := trip.Arrive(req.Latitude, req.Longitude, req.ImageURL, points, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// GetTrip retrieves a trip, enforcing ownership.
func (s *TripService) GetTrip(ctx context.Context, tripID, userID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	return s.ownedTrip(ctx, tripID, userID)
}

// ListTripsRequest contains the parameters for listing a user's trips.
type ListTripsRequest struct {
	UserID string
	Status domain.TripStatus // empty means all statuses
	Limit  int
	Offset int
}

// ListTrips retrieves the caller's trips, newest first, with the total
// count for pagination.
func (s *TripService) ListTrips(ctx context.Context, req ListTripsRequest) ([]*domain.Trip, int, error) {
	if req.UserID == "" {
		return nil, 0, ErrInvalidUserID
	}
	if req.Limit < 1 || req.Limit > 100 || req.Offset < 0 {
		return nil, 0, ErrInvalidPagination
	}
	if req.Status != "" && !domain.ValidTripStatus(req.Status) {
		return nil, 0, ErrInvalidStatus
	}

	return s.tripRepo.ListByUser(ctx, req.UserID, req.Status, req.Limit, req.Offset)
}

// ownedTrip loads a trip and verifies the caller owns it.
func (s *TripService) ownedTrip(ctx context.Context, tripID, userID string) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.UserID != userID {
		return nil, ErrNotTripOwner
	}

	return trip, nil
}

func validateMutation(tripID, userID string, lat, lng float64, imageURL string) error {
	if tripID == "" {
		return ErrInvalidTripID
	}
	if userID == "" {
		return ErrInvalidUserID
	}
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return ErrInvalidLocation
	}
	if imageURL == "" {
		return ErrInvalidImageURL
	}
	return nil
}
