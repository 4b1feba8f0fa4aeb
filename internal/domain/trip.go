package domain

import (
	"errors"
	"fmt"
	"time"
)

// TripStatus represents the current status of a trip.
//
// Transitions are strictly forward:
// DRIVING -> TRANSFERRED -> COMPLETED -> APPROVED | REJECTED.
type TripStatus string

const (
	TripStatusDriving     TripStatus = "DRIVING"
	TripStatusTransferred TripStatus = "TRANSFERRED"
	TripStatusCompleted   TripStatus = "COMPLETED"
	TripStatusApproved    TripStatus = "APPROVED"
	TripStatusRejected    TripStatus = "REJECTED"
)

// ValidTripStatus reports whether s is a known trip status.
func ValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusDriving, TripStatusTransferred, TripStatusCompleted,
		TripStatusApproved, TripStatusRejected:
		return true
	}
	return false
}

// ErrIllegalTransition is returned when a status transition violates the
// trip state machine. Errors wrapping it name the current status.
var ErrIllegalTransition = errors.New("illegal trip status transition")

// Trip represents a single user's tracked commute from start through
// admin review. The transfer and arrival fields are unset until the
// corresponding transition has been applied; the status is the source
// of truth for which stages have been recorded.
type Trip struct {
	ID     string
	UserID string

	StartLatitude  float64
	StartLongitude float64

	TransferLatitude  float64
	TransferLongitude float64
	TransferImageURL  string

	ArrivalLatitude  float64
	ArrivalLongitude float64
	ArrivalImageURL  string

	Status TripStatus

	// Points is the award computed once at arrival and frozen; approval
	// credits this value verbatim.
	Points int

	// AdminNote records the reviewer's note, normally a rejection reason.
	AdminNote string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the trip is still in progress (not yet
// completed or reviewed). At most one active trip may exist per user.
func (t *Trip) IsActive() bool {
	return t.Status == TripStatusDriving || t.Status == TripStatusTransferred
}

// HasTransfer reports whether the transfer waypoint has been recorded.
func (t *Trip) HasTransfer() bool {
	return t.Status != TripStatusDriving
}

// HasArrival reports whether the arrival waypoint has been recorded.
func (t *Trip) HasArrival() bool {
	switch t.Status {
	case TripStatusCompleted, TripStatusApproved, TripStatusRejected:
		return true
	}
	return false
}

// Transfer records the transit transfer waypoint and its proof image,
// advancing the trip to TRANSFERRED. Legal only from DRIVING.
func (t *Trip) Transfer(lat, lng float64, imageURL string, now time.Time) error {
	if t.Status != TripStatusDriving {
		return fmt.Errorf("cannot transfer from status %s: %w", t.Status, ErrIllegalTransition)
	}

	t.TransferLatitude = lat
	t.TransferLongitude = lng
	t.TransferImageURL = imageURL
	t.Status = TripStatusTransferred
	t.UpdatedAt = now

	return nil
}

// Arrive records the arrival waypoint, its proof image and the point
// award, advancing the trip to COMPLETED. Legal only from TRANSFERRED.
// The award is computed by the caller from the full path and is never
// recomputed afterwards.
func (t *Trip) Arrive(lat, lng float64, imageURL string, points int, now time.Time) error {
	if t.Status != TripStatusTransferred {
		return fmt.Errorf("cannot arrive from status %s: %w", t.Status, ErrIllegalTransition)
	}

	t.ArrivalLatitude = lat
	t.ArrivalLongitude = lng
	t.ArrivalImageURL = imageURL
	t.Points = points
	t.Status = TripStatusCompleted
	t.UpdatedAt = now

	return nil
}

// Approve advances the trip to APPROVED. Legal only from COMPLETED.
// The point award set at arrival is carried over unchanged.
func (t *Trip) Approve(now time.Time) error {
	if t.Status != TripStatusCompleted {
		return fmt.Errorf("cannot approve from status %s: %w", t.Status, ErrIllegalTransition)
	}

	t.Status = TripStatusApproved
	t.UpdatedAt = now

	return nil
}

// Reject advances the trip to REJECTED and records the optional reviewer
// note. Legal only from COMPLETED; a rejected trip cannot be rejected
// again.
func (t *Trip) Reject(note string, now time.Time) error {
	if t.Status != TripStatusCompleted {
		return fmt.Errorf("cannot reject from status %s: %w", t.Status, ErrIllegalTransition)
	}

	t.Status = TripStatusRejected
	t.AdminNote = note
	t.UpdatedAt = now

	return nil
}
