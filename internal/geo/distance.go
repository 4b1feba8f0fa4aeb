package geo

import (
	"errors"
	"math"
)

var (
	// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidDistance is returned when a negative distance is passed to the point conversion.
	ErrInvalidDistance = errors.New("invalid distance")
)

// MetersPerPoint is the distance a user must cover to earn one point.
const MetersPerPoint = 500.0

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000.0

// Point is a geographic coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// ValidLatitude reports whether lat is within [-90, 90].
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lng is within [-180, 180].
func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// DistanceMeters computes the great-circle distance between two coordinates
// using the Haversine formula. The result is always >= 0 and exactly 0 for
// identical points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if !ValidLatitude(lat1) || !ValidLatitude(lat2) {
		return 0, ErrInvalidCoordinate
	}
	if !ValidLongitude(lon1) || !ValidLongitude(lon2) {
		return 0, ErrInvalidCoordinate
	}

	if lat1 == lat2 && lon1 == lon2 {
		return 0, nil
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a)), nil
}

// TripTotalDistance computes the total path length of a trip in meters.
// With a transfer waypoint the path is start -> transfer -> arrival,
// otherwise start -> arrival directly. A trip without an arrival has no
// defined distance and returns 0.
func TripTotalDistance(start Point, transfer, arrival *Point) (float64, error) {
	if arrival == nil {
		return 0, nil
	}

	if transfer == nil {
		return DistanceMeters(start.Latitude, start.Longitude, arrival.Latitude, arrival.Longitude)
	}

	startToTransfer, err := DistanceMeters(start.Latitude, start.Longitude, transfer.Latitude, transfer.Longitude)
	if err != nil {
		return 0, err
	}

	transferToArrival, err := DistanceMeters(transfer.Latitude, transfer.Longitude, arrival.Latitude, arrival.Longitude)
	if err != nil {
		return 0, err
	}

	return startToTransfer + transferToArrival, nil
}

// PointsFromDistance converts a distance in meters to a point award:
// one point per 500 meters, fractional remainder discarded.
func PointsFromDistance(distanceMeters float64) (int, error) {
	if distanceMeters < 0 {
		return 0, ErrInvalidDistance
	}

	return int(math.Floor(distanceMeters / MetersPerPoint)), nil
}
