package domain

import "time"

// Station represents a subway station a commuter can transfer at.
// Coordinates are stored as a PostGIS geography point and exposed as
// plain latitude/longitude.
type Station struct {
	ID         string
	Name       string
	LineNumber int
	Latitude   float64
	Longitude  float64
	CreatedAt  time.Time
}

// StationDistance is a station paired with its distance from a query
// point, for nearby lookups.
type StationDistance struct {
	Station       Station
	DistanceMeter float64
}

// ParkingLot represents a park-and-ride lot near a station.
type ParkingLot struct {
	ID        string
	Name      string
	Address   string
	Capacity  int
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}
