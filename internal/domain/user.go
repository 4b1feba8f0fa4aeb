package domain

import "time"

// User represents a registered commuter. Identity and credential
// issuance live in the external auth provider; this record carries the
// profile fields the backend needs for review listings and the point
// balance credited on approval.
type User struct {
	ID            string
	Username      string
	VehicleNumber string
	TotalPoints   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
