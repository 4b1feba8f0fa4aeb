package service

import "errors"

var (
	// ErrInvalidUserID is returned when the user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidTripID is returned when the trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidImageURL is returned when a proof image reference is empty.
	ErrInvalidImageURL = errors.New("invalid image url")

	// ErrNotTripOwner is returned when a caller operates on another
	// user's trip.
	ErrNotTripOwner = errors.New("trip belongs to another user")

	// ErrActiveTripExists is returned when starting a trip while one is
	// already in progress for the user.
	ErrActiveTripExists = errors.New("user already has an active trip")

	// ErrInvalidPagination is returned when limit is outside [1,100] or
	// offset is negative.
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrInvalidStatus is returned when a status filter is not a known
	// trip status.
	ErrInvalidStatus = errors.New("invalid trip status")

	// ErrInvalidRadius is returned when a nearby-search radius is out of
	// range.
	ErrInvalidRadius = errors.New("invalid search radius")
)
