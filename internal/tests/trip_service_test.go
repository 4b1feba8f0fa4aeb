package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ecopass/internal/domain"
	"ecopass/internal/service"
)

// ──────────────────────────────────────────────
// TRIP LIFECYCLE
// ──────────────────────────────────────────────

func TestStartTrip_CreatesDrivingTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	lockStore := NewMockLockStore()
	svc := service.NewTripService(tripRepo, lockStore)

	trip, err := svc.StartTrip(context.Background(), service.StartTripRequest{
		UserID:    "user-1",
		Latitude:  35.8809,
		Longitude: 128.6286,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusDriving {
		t.Errorf("expected status %s, got %s", domain.TripStatusDriving, trip.Status)
	}
	if trip.ID == "" {
		t.Error("expected a generated trip ID")
	}
	if tripRepo.GetTrip(trip.ID) == nil {
		t.Error("trip not persisted")
	}

	// The start lock is per-request, not per-trip; it must be released.
	if lockStore.IsLocked("user-1") {
		t.Error("start lock still held after request")
	}
}

func TestStartTrip_RejectsSecondActiveTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())

	ctx := context.Background()
	if _, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.88, Longitude: 128.62}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.88, Longitude: 128.62})
	if !errors.Is(err, service.ErrActiveTripExists) {
		t.Errorf("expected ErrActiveTripExists, got %v", err)
	}

	// A different user is unaffected.
	if _, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-2", Latitude: 35.88, Longitude: 128.62}); err != nil {
		t.Errorf("unexpected error for second user: %v", err)
	}
}

func TestStartTrip_LockContentionMapsToConflict(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	lockStore := NewMockLockStore()
	lockStore.ForceAcquireFailure = true
	svc := service.NewTripService(tripRepo, lockStore)

	_, err := svc.StartTrip(context.Background(), service.StartTripRequest{
		UserID:    "user-1",
		Latitude:  35.88,
		Longitude: 128.62,
	})
	if !errors.Is(err, service.ErrActiveTripExists) {
		t.Errorf("expected ErrActiveTripExists, got %v", err)
	}
	if atomic.LoadInt32(&tripRepo.CreateCallCount) != 0 {
		t.Error("trip must not be created while the start lock is contended")
	}
}

func TestStartTrip_ValidatesCoordinates(t *testing.T) {
	t.Parallel()

	svc := service.NewTripService(NewMockTripRepository(), NewMockLockStore())
	ctx := context.Background()

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude too high", 91, 128.62},
		{"latitude too low", -91, 128.62},
		{"longitude too high", 35.88, 181},
		{"longitude too low", 35.88, -181},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: tc.lat, Longitude: tc.lng})
			if !errors.Is(err, service.ErrInvalidLocation) {
				t.Errorf("expected ErrInvalidLocation, got %v", err)
			}
		})
	}
}

func TestStartTrip_AllowedAfterPreviousTripCompletes(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())
	ctx := context.Background()

	tripRepo.AddTrip(&domain.Trip{
		ID:        "trip-done",
		UserID:    "user-1",
		Status:    domain.TripStatusCompleted,
		Points:    4,
		CreatedAt: time.Now().Add(-time.Hour),
	})

	if _, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.88, Longitude: 128.62}); err != nil {
		t.Errorf("completed trip must not block a new start: %v", err)
	}
}

func TestTransferTrip_RecordsWaypoint(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())
	ctx := context.Background()

	started, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.8809, Longitude: 128.6286})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip, err := svc.TransferTrip(ctx, service.TransferTripRequest{
		TripID:    started.ID,
		UserID:    "user-1",
		Latitude:  35.8714,
		Longitude: 128.5988,
		ImageURL:  "https://img.example.com/transfer.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusTransferred {
		t.Errorf("expected status %s, got %s", domain.TripStatusTransferred, trip.Status)
	}
	if trip.TransferImageURL != "https://img.example.com/transfer.jpg" {
		t.Errorf("transfer proof not recorded: %q", trip.TransferImageURL)
	}
}

func TestTransferTrip_RejectsNonOwner(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())
	ctx := context.Background()

	started, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.88, Longitude: 128.62})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.TransferTrip(ctx, service.TransferTripRequest{
		TripID:    started.ID,
		UserID:    "user-2",
		Latitude:  35.87,
		Longitude: 128.60,
		ImageURL:  "https://img.example.com/t.jpg",
	})
	if !errors.Is(err, service.ErrNotTripOwner) {
		t.Errorf("expected ErrNotTripOwner, got %v", err)
	}
}

func TestTransferTrip_RequiresProofImage(t *testing.T) {
	t.Parallel()

	svc := service.NewTripService(NewMockTripRepository(), NewMockLockStore())

	_, err := svc.TransferTrip(context.Background(), service.TransferTripRequest{
		TripID:    "trip-1",
		UserID:    "user-1",
		Latitude:  35.87,
		Longitude: 128.60,
	})
	if !errors.Is(err, service.ErrInvalidImageURL) {
		t.Errorf("expected ErrInvalidImageURL, got %v", err)
	}
}

func TestArriveTrip_ComputesAwardFromFullPath(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())
	ctx := context.Background()

	// Suseong-gu commute: roughly 2.9km drive plus 1.7km transit leg,
	// 4.57km in total, which floors to 9 points at 500m per point.
	started, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.8809, Longitude: 128.6286})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.TransferTrip(ctx, service.TransferTripRequest{
		TripID:    started.ID,
		UserID:    "user-1",
		Latitude:  35.8714,
		Longitude: 128.5988,
		ImageURL:  "https://img.example.com/transfer.jpg",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip, err := svc.ArriveTrip(ctx, service.ArriveTripRequest{
		TripID:    started.ID,
		UserID:    "user-1",
		Latitude:  35.8569,
		Longitude: 128.5932,
		ImageURL:  "https://img.example.com/arrival.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.TripStatusCompleted, trip.Status)
	}
	if trip.Points != 9 {
		t.Errorf("expected 9 points, got %d", trip.Points)
	}

	// Completion frees the user for the next commute.
	if _, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.8569, Longitude: 128.5932}); err != nil {
		t.Errorf("completed trip must not block a new start: %v", err)
	}
}

func TestArriveTrip_ShortPathAwardsZero(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())
	ctx := context.Background()

	started, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.8809, Longitude: 128.6286})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.TransferTrip(ctx, service.TransferTripRequest{
		TripID:    started.ID,
		UserID:    "user-1",
		Latitude:  35.8810,
		Longitude: 128.6287,
		ImageURL:  "https://img.example.com/transfer.jpg",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip, err := svc.ArriveTrip(ctx, service.ArriveTripRequest{
		TripID:    started.ID,
		UserID:    "user-1",
		Latitude:  35.8811,
		Longitude: 128.6288,
		ImageURL:  "https://img.example.com/arrival.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Points != 0 {
		t.Errorf("expected 0 points for a sub-500m path, got %d", trip.Points)
	}
	if trip.Status != domain.TripStatusCompleted {
		t.Errorf("zero-point trips still complete, got status %s", trip.Status)
	}
}

func TestArriveTrip_RequiresTransferFirst(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())
	ctx := context.Background()

	started, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.88, Longitude: 128.62})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ArriveTrip(ctx, service.ArriveTripRequest{
		TripID:    started.ID,
		UserID:    "user-1",
		Latitude:  35.85,
		Longitude: 128.59,
		ImageURL:  "https://img.example.com/arrival.jpg",
	})
	if !errors.Is(err, domain.ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got %v", err)
	}

	stored := tripRepo.GetTrip(started.ID)
	if stored.Status != domain.TripStatusDriving {
		t.Errorf("failed arrival must not change status, got %s", stored.Status)
	}
}

func TestGetTrip_EnforcesOwnership(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())
	ctx := context.Background()

	started, err := svc.StartTrip(ctx, service.StartTripRequest{UserID: "user-1", Latitude: 35.88, Longitude: 128.62})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetTrip(ctx, started.ID, "user-1"); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.GetTrip(ctx, started.ID, "user-2"); !errors.Is(err, service.ErrNotTripOwner) {
		t.Errorf("expected ErrNotTripOwner, got %v", err)
	}
}

func TestListTrips_ValidatesPagination(t *testing.T) {
	t.Parallel()

	svc := service.NewTripService(NewMockTripRepository(), NewMockLockStore())
	ctx := context.Background()

	cases := []struct {
		name          string
		limit, offset int
		status        domain.TripStatus
		wantErr       error
	}{
		{"zero limit", 0, 0, "", service.ErrInvalidPagination},
		{"limit over cap", 101, 0, "", service.ErrInvalidPagination},
		{"negative offset", 10, -1, "", service.ErrInvalidPagination},
		{"unknown status", 10, 0, "TELEPORTED", service.ErrInvalidStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.ListTrips(ctx, service.ListTripsRequest{
				UserID: "user-1",
				Status: tc.status,
				Limit:  tc.limit,
				Offset: tc.offset,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestListTrips_ReturnsOwnTripsNewestFirst(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := service.NewTripService(tripRepo, NewMockLockStore())

	base := time.Now().Add(-time.Hour)
	tripRepo.AddTrip(&domain.Trip{ID: "t1", UserID: "user-1", Status: domain.TripStatusApproved, CreatedAt: base})
	tripRepo.AddTrip(&domain.Trip{ID: "t2", UserID: "user-1", Status: domain.TripStatusRejected, CreatedAt: base.Add(10 * time.Minute)})
	tripRepo.AddTrip(&domain.Trip{ID: "t3", UserID: "user-2", Status: domain.TripStatusApproved, CreatedAt: base.Add(20 * time.Minute)})

	trips, count, err := svc.ListTrips(context.Background(), service.ListTripsRequest{UserID: "user-1", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(trips) != 2 {
		t.Fatalf("expected 2 trips, got count=%d len=%d", count, len(trips))
	}
	if trips[0].ID != "t2" || trips[1].ID != "t1" {
		t.Errorf("expected newest first [t2 t1], got [%s %s]", trips[0].ID, trips[1].ID)
	}

	approved, count, err := svc.ListTrips(context.Background(), service.ListTripsRequest{
		UserID: "user-1",
		Status: domain.TripStatusApproved,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 || len(approved) != 1 || approved[0].ID != "t1" {
		t.Errorf("status filter failed: count=%d", count)
	}
}
