package postgres

import (
	"context"
	"database/sql"

	"ecopass/internal/domain"
	"ecopass/internal/repository"
)

// StationRepository is a PostgreSQL implementation of
// repository.StationRepository. Coordinates live in PostGIS geography
// columns and are projected back to latitude/longitude with ST_Y/ST_X.
type StationRepository struct {
	q Querier
}

// NewStationRepository creates a new PostgreSQL station repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{q: db}
}

// ListStations retrieves all stations, optionally restricted to a line.
func (r *StationRepository) ListStations(ctx context.Context, lineNumber int) ([]domain.Station, error) {
	query := `
		SELECT id, name, line_number,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       created_at
		FROM stations
	`
	var args []any
	if lineNumber > 0 {
		query += ` WHERE line_number = $1`
		args = append(args, lineNumber)
	}
	query += ` ORDER BY line_number, name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.LineNumber, &s.Latitude, &s.Longitude, &s.CreatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}

	return stations, rows.Err()
}

// FindNearby retrieves stations within radiusMeters of the given point,
// closest first.
func (r *StationRepository) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.StationDistance, error) {
	query := `
		SELECT id, name, line_number,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       created_at,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography)
		FROM stations
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY 7
		LIMIT $4
	`

	rows, err := r.q.QueryContext(ctx, query, lat, lng, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.StationDistance
	for rows.Next() {
		var sd domain.StationDistance
		if err := rows.Scan(
			&sd.Station.ID,
			&sd.Station.Name,
			&sd.Station.LineNumber,
			&sd.Station.Latitude,
			&sd.Station.Longitude,
			&sd.Station.CreatedAt,
			&sd.DistanceMeter,
		); err != nil {
			return nil, err
		}
		results = append(results, sd)
	}

	return results, rows.Err()
}

// ListParkingLots retrieves all park-and-ride lots.
func (r *StationRepository) ListParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	query := `
		SELECT id, name, address, capacity,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       created_at
		FROM parking_lots
		ORDER BY name
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []domain.ParkingLot
	for rows.Next() {
		var l domain.ParkingLot
		var address sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &address, &l.Capacity, &l.Latitude, &l.Longitude, &l.CreatedAt); err != nil {
			return nil, err
		}
		if address.Valid {
			l.Address = address.String
		}
		lots = append(lots, l)
	}

	return lots, rows.Err()
}

// Ensure StationRepository implements repository.StationRepository.
var _ repository.StationRepository = (*StationRepository)(nil)
