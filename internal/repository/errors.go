package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrActiveTripExists is returned when inserting a trip violates the
	// one-active-trip-per-user constraint.
	ErrActiveTripExists = errors.New("user already has an active trip")
)
