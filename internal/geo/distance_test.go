package geo

import (
	"errors"
	"math"
	"testing"
)

func TestPointsFromDistance_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		distance float64
		want     int
	}{
		{0, 0},
		{499, 0},
		{500, 1},
		{999.99, 1},
		{3500, 7},
	}

	for _, tc := range cases {
		got, err := PointsFromDistance(tc.distance)
		if err != nil {
			t.Fatalf("PointsFromDistance(%v): unexpected error: %v", tc.distance, err)
		}
		if got != tc.want {
			t.Errorf("PointsFromDistance(%v) = %d, want %d", tc.distance, got, tc.want)
		}
	}
}

func TestPointsFromDistance_NegativeFails(t *testing.T) {
	t.Parallel()

	_, err := PointsFromDistance(-1)
	if !errors.Is(err, ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
}

func TestPointsFromDistance_Monotonic(t *testing.T) {
	t.Parallel()

	distances := []float64{0, 1, 250, 499, 500, 501, 1200, 3500, 10000}
	prev := -1
	for _, d := range distances {
		p, err := PointsFromDistance(d)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", d, err)
		}
		if p < prev {
			t.Errorf("points not monotonic: distance %v gave %d after %d", d, p, prev)
		}
		prev = p
	}
}

func TestDistanceMeters_IdenticalPointsZero(t *testing.T) {
	t.Parallel()

	d, err := DistanceMeters(35.8809, 128.6286, 35.8809, 128.6286)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 0 {
		t.Errorf("expected exactly 0 for identical points, got %v", d)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	t.Parallel()

	ab, err := DistanceMeters(35.8809, 128.6286, 35.8714, 128.5988)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := DistanceMeters(35.8714, 128.5988, 35.8809, 128.6286)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
	if ab <= 0 {
		t.Errorf("expected positive distance, got %v", ab)
	}
}

func TestDistanceMeters_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	cases := [][4]float64{
		{91, 0, 0, 0},
		{-91, 0, 0, 0},
		{0, 181, 0, 0},
		{0, -181, 0, 0},
		{0, 0, 90.0001, 0},
		{0, 0, 0, 180.0001},
	}

	for _, c := range cases {
		_, err := DistanceMeters(c[0], c[1], c[2], c[3])
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("DistanceMeters(%v): expected ErrInvalidCoordinate, got %v", c, err)
		}
	}
}

func TestTripTotalDistance_ReferencePath(t *testing.T) {
	t.Parallel()

	start := Point{Latitude: 35.8809, Longitude: 128.6286}
	transfer := Point{Latitude: 35.8714, Longitude: 128.5988}
	arrival := Point{Latitude: 35.8569, Longitude: 128.5932}

	total, err := TripTotalDistance(start, &transfer, &arrival)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Path through the transfer point is roughly 4575m.
	if total < 4500 || total > 4650 {
		t.Errorf("total distance %v out of expected range", total)
	}

	points, err := PointsFromDistance(total)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points != 9 {
		t.Errorf("expected 9 points for reference path, got %d", points)
	}
}

func TestTripTotalDistance_NoTransfer(t *testing.T) {
	t.Parallel()

	start := Point{Latitude: 35.8809, Longitude: 128.6286}
	arrival := Point{Latitude: 35.8569, Longitude: 128.5932}

	total, err := TripTotalDistance(start, nil, &arrival)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	direct, err := DistanceMeters(start.Latitude, start.Longitude, arrival.Latitude, arrival.Longitude)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if total != direct {
		t.Errorf("expected direct distance %v, got %v", direct, total)
	}
}

func TestTripTotalDistance_NoArrival(t *testing.T) {
	t.Parallel()

	start := Point{Latitude: 35.8809, Longitude: 128.6286}
	total, err := TripTotalDistance(start, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Errorf("expected 0 for trip without arrival, got %v", total)
	}
}

func TestTripTotalDistance_LongerPathThroughTransfer(t *testing.T) {
	t.Parallel()

	start := Point{Latitude: 35.8809, Longitude: 128.6286}
	transfer := Point{Latitude: 35.8714, Longitude: 128.5988}
	arrival := Point{Latitude: 35.8569, Longitude: 128.5932}

	viaTransfer, err := TripTotalDistance(start, &transfer, &arrival)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	direct, err := TripTotalDistance(start, nil, &arrival)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if viaTransfer < direct {
		t.Errorf("path via transfer (%v) shorter than direct path (%v)", viaTransfer, direct)
	}
}
