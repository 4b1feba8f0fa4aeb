package domain

import (
	"errors"
	"testing"
	"time"
)

func newDrivingTrip() *Trip {
	now := time.Now()
	return &Trip{
		ID:             "trip-1",
		UserID:         "user-1",
		StartLatitude:  35.8809,
		StartLongitude: 128.6286,
		Status:         TripStatusDriving,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func completedTrip() *Trip {
	t := newDrivingTrip()
	now := time.Now()
	_ = t.Transfer(35.8714, 128.5988, "https://img.example.com/1.jpg", now)
	_ = t.Arrive(35.8569, 128.5932, "https://img.example.com/2.jpg", 9, now)
	return t
}

func TestTrip_FullLifecycle(t *testing.T) {
	t.Parallel()

	trip := newDrivingTrip()
	now := time.Now()

	if err := trip.Transfer(35.8714, 128.5988, "https://img.example.com/1.jpg", now); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if trip.Status != TripStatusTransferred {
		t.Errorf("expected TRANSFERRED, got %s", trip.Status)
	}
	if trip.TransferImageURL != "https://img.example.com/1.jpg" {
		t.Errorf("transfer image not recorded")
	}

	if err := trip.Arrive(35.8569, 128.5932, "https://img.example.com/2.jpg", 9, now); err != nil {
		t.Fatalf("arrive failed: %v", err)
	}
	if trip.Status != TripStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", trip.Status)
	}
	if trip.Points != 9 {
		t.Errorf("expected 9 points, got %d", trip.Points)
	}

	if err := trip.Approve(now); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if trip.Status != TripStatusApproved {
		t.Errorf("expected APPROVED, got %s", trip.Status)
	}
	if trip.Points != 9 {
		t.Errorf("award changed by approve: got %d", trip.Points)
	}
}

func TestTrip_ForwardOnlyTransitions(t *testing.T) {
	t.Parallel()

	now := time.Now()

	// Every status from which each transition must fail.
	illegalTransfer := []TripStatus{TripStatusTransferred, TripStatusCompleted, TripStatusApproved, TripStatusRejected}
	illegalArrive := []TripStatus{TripStatusDriving, TripStatusCompleted, TripStatusApproved, TripStatusRejected}
	illegalReview := []TripStatus{TripStatusDriving, TripStatusTransferred, TripStatusApproved, TripStatusRejected}

	for _, status := range illegalTransfer {
		trip := newDrivingTrip()
		trip.Status = status
		err := trip.Transfer(35.87, 128.59, "https://img.example.com/1.jpg", now)
		if !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("transfer from %s: expected ErrIllegalTransition, got %v", status, err)
		}
	}

	for _, status := range illegalArrive {
		trip := newDrivingTrip()
		trip.Status = status
		err := trip.Arrive(35.85, 128.59, "https://img.example.com/2.jpg", 1, now)
		if !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("arrive from %s: expected ErrIllegalTransition, got %v", status, err)
		}
	}

	for _, status := range illegalReview {
		trip := newDrivingTrip()
		trip.Status = status
		if err := trip.Approve(now); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("approve from %s: expected ErrIllegalTransition, got %v", status, err)
		}

		trip = newDrivingTrip()
		trip.Status = status
		if err := trip.Reject("note", now); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("reject from %s: expected ErrIllegalTransition, got %v", status, err)
		}
	}
}

func TestTrip_ArriveWithoutTransferFails(t *testing.T) {
	t.Parallel()

	trip := newDrivingTrip()
	err := trip.Arrive(35.8569, 128.5932, "https://img.example.com/2.jpg", 8, time.Now())
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition, got %v", err)
	}
	if trip.Status != TripStatusDriving {
		t.Errorf("status mutated by failed transition: %s", trip.Status)
	}
}

func TestTrip_RejectStoresNoteAndIsTerminal(t *testing.T) {
	t.Parallel()

	trip := completedTrip()
	now := time.Now()

	if err := trip.Reject("blurry photo", now); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if trip.Status != TripStatusRejected {
		t.Errorf("expected REJECTED, got %s", trip.Status)
	}
	if trip.AdminNote != "blurry photo" {
		t.Errorf("note not stored: %q", trip.AdminNote)
	}

	// Re-rejection must fail.
	if err := trip.Reject("again", now); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("expected ErrIllegalTransition on re-reject, got %v", err)
	}
	if trip.AdminNote != "blurry photo" {
		t.Errorf("note overwritten by failed re-reject: %q", trip.AdminNote)
	}
}

func TestTrip_AwardImmutableThroughApprove(t *testing.T) {
	t.Parallel()

	trip := completedTrip()
	before := trip.Points

	if err := trip.Approve(time.Now()); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if trip.Points != before {
		t.Errorf("award changed across approve: %d -> %d", before, trip.Points)
	}
}

func TestTrip_UpdatedAtRefreshedOnMutation(t *testing.T) {
	t.Parallel()

	trip := newDrivingTrip()
	created := trip.UpdatedAt

	later := created.Add(5 * time.Minute)
	if err := trip.Transfer(35.8714, 128.5988, "https://img.example.com/1.jpg", later); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if !trip.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt not refreshed: %v", trip.UpdatedAt)
	}
	if !trip.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt mutated: %v", trip.CreatedAt)
	}
}

func TestTrip_IsActive(t *testing.T) {
	t.Parallel()

	active := []TripStatus{TripStatusDriving, TripStatusTransferred}
	inactive := []TripStatus{TripStatusCompleted, TripStatusApproved, TripStatusRejected}

	for _, s := range active {
		trip := &Trip{Status: s}
		if !trip.IsActive() {
			t.Errorf("expected %s to be active", s)
		}
	}
	for _, s := range inactive {
		trip := &Trip{Status: s}
		if trip.IsActive() {
			t.Errorf("expected %s to be inactive", s)
		}
	}
}
