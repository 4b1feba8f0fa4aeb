package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ecopass/internal/domain"
	"ecopass/internal/repository"
)

// activeTripIndex is the partial unique index enforcing one active trip
// per user at the storage layer (see migrations/001_init.sql).
const activeTripIndex = "uniq_trips_active_user"

const tripColumns = `id, user_id, start_latitude, start_longitude,
		transfer_latitude, transfer_longitude, transfer_image_url,
		arrival_latitude, arrival_longitude, arrival_image_url,
		status, points, admin_note, created_at, updated_at`

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

// Create persists a new trip. A violation of the active-trip unique
// index is reported as repository.ErrActiveTripExists.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.q.ExecContext(ctx, query, tripArgs(trip)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == activeTripIndex {
			return repository.ErrActiveTripExists
		}
		return err
	}

	return nil
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// GetActiveByUserID retrieves the user's trip in DRIVING or TRANSFERRED
// status. Returns nil if no active trip exists.
func (r *TripRepository) GetActiveByUserID(ctx context.Context, userID string) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1 AND status IN ($2, $3)
		LIMIT 1
	`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, userID,
		domain.TripStatusDriving, domain.TripStatusTransferred))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return trip, nil
}

// Update persists changes to an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET transfer_latitude = $2, transfer_longitude = $3, transfer_image_url = $4,
		    arrival_latitude = $5, arrival_longitude = $6, arrival_image_url = $7,
		    status = $8, points = $9, admin_note = $10, updated_at = $11
		WHERE id = $1
	`

	args := tripArgs(trip)
	// Drop the immutable columns (user_id, start waypoint, created_at).
	result, err := r.q.ExecContext(ctx, query,
		args[0], args[4], args[5], args[6], args[7], args[8], args[9],
		args[10], args[11], args[12], args[14])
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByStatus retrieves trips with the given status, newest first.
func (r *TripRepository) ListByStatus(ctx context.Context, status domain.TripStatus, limit, offset int) ([]*domain.Trip, int, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	trips, err := r.queryTrips(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	count, err := r.CountByStatus(ctx, status)
	if err != nil {
		return nil, 0, err
	}

	return trips, count, nil
}

// ListByUser retrieves a user's trips, newest first, optionally filtered
// by status.
func (r *TripRepository) ListByUser(ctx context.Context, userID string, status domain.TripStatus, limit, offset int) ([]*domain.Trip, int, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}

	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	countQuery := "SELECT COUNT(*) FROM trips " + where

	var count int
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT `+tripColumns+`
		FROM trips %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	trips, err := r.queryTrips(ctx, listQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}

	return trips, count, nil
}

// ListWithFilters retrieves trips matching the filter, newest first.
func (r *TripRepository) ListWithFilters(ctx context.Context, filter repository.TripFilter, limit, offset int) ([]*domain.Trip, int, error) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if !filter.From.IsZero() {
		add("created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("created_at <= $%d", filter.To)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var count int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips "+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT `+tripColumns+`
		FROM trips %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	trips, err := r.queryTrips(ctx, listQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}

	return trips, count, nil
}

// CountByStatus counts trips with the given status.
func (r *TripRepository) CountByStatus(ctx context.Context, status domain.TripStatus) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips WHERE status = $1`, status).Scan(&count)
	return count, err
}

// CountAll counts all trips.
func (r *TripRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&count)
	return count, err
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var trip domain.Trip
	var transferLat, transferLng sql.NullFloat64
	var transferImage sql.NullString
	var arrivalLat, arrivalLng sql.NullFloat64
	var arrivalImage sql.NullString
	var points sql.NullInt64
	var adminNote sql.NullString

	err := s.Scan(
		&trip.ID,
		&trip.UserID,
		&trip.StartLatitude,
		&trip.StartLongitude,
		&transferLat,
		&transferLng,
		&transferImage,
		&arrivalLat,
		&arrivalLng,
		&arrivalImage,
		&trip.Status,
		&points,
		&adminNote,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if transferLat.Valid {
		trip.TransferLatitude = transferLat.Float64
	}
	if transferLng.Valid {
		trip.TransferLongitude = transferLng.Float64
	}
	if transferImage.Valid {
		trip.TransferImageURL = transferImage.String
	}
	if arrivalLat.Valid {
		trip.ArrivalLatitude = arrivalLat.Float64
	}
	if arrivalLng.Valid {
		trip.ArrivalLongitude = arrivalLng.Float64
	}
	if arrivalImage.Valid {
		trip.ArrivalImageURL = arrivalImage.String
	}
	if points.Valid {
		trip.Points = int(points.Int64)
	}
	if adminNote.Valid {
		trip.AdminNote = adminNote.String
	}

	return &trip, nil
}

// tripArgs maps a trip to the insert argument order of tripColumns,
// storing NULL for stages the state machine has not reached yet.
func tripArgs(trip *domain.Trip) []any {
	var transferLat, transferLng sql.NullFloat64
	var transferImage sql.NullString
	if trip.HasTransfer() {
		transferLat = sql.NullFloat64{Float64: trip.TransferLatitude, Valid: true}
		transferLng = sql.NullFloat64{Float64: trip.TransferLongitude, Valid: true}
		transferImage = sql.NullString{String: trip.TransferImageURL, Valid: true}
	}

	var arrivalLat, arrivalLng sql.NullFloat64
	var arrivalImage sql.NullString
	var points sql.NullInt64
	if trip.HasArrival() {
		arrivalLat = sql.NullFloat64{Float64: trip.ArrivalLatitude, Valid: true}
		arrivalLng = sql.NullFloat64{Float64: trip.ArrivalLongitude, Valid: true}
		arrivalImage = sql.NullString{String: trip.ArrivalImageURL, Valid: true}
		points = sql.NullInt64{Int64: int64(trip.Points), Valid: true}
	}

	var adminNote sql.NullString
	if trip.AdminNote != "" {
		adminNote = sql.NullString{String: trip.AdminNote, Valid: true}
	}

	return []any{
		trip.ID,
		trip.UserID,
		trip.StartLatitude,
		trip.StartLongitude,
		transferLat,
		transferLng,
		transferImage,
		arrivalLat,
		arrivalLng,
		arrivalImage,
		trip.Status,
		points,
		adminNote,
		trip.CreatedAt,
		trip.UpdatedAt,
	}
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
