package service

import (
	"context"
	"database/sql"
	"time"

	"ecopass/internal/domain"
	"ecopass/internal/redis"
	"ecopass/internal/repository"
	"ecopass/internal/repository/postgres"
)

// UserBalanceCredit is the collaborator that credits approved points to
// a user's balance.
type UserBalanceCredit interface {
	AddPoints(ctx context.Context, userID string, points int) error
}

// AdminService handles the review workflow over completed trips.
type AdminService struct {
	db       *sql.DB
	tripRepo repository.TripRepository
	userRepo repository.UserRepository
	balance  UserBalanceCredit
	cache    redis.CacheStoreInterface
}

// NewAdminService creates a new AdminService. db may be nil in tests;
// when present, approve commits the status change and the point credit
// in a single transaction.
func NewAdminService(
	db *sql.DB,
	tripRepo repository.TripRepository,
	userRepo repository.UserRepository,
	balance UserBalanceCredit,
	cache redis.CacheStoreInterface,
) *AdminService {
	return &AdminService{
		db:       db,
		tripRepo: tripRepo,
		userRepo: userRepo,
		balance:  balance,
		cache:    cache,
	}
}

// TripWithUser pairs a trip with its owner's profile for review views.
// User is nil when the owner lookup failed; a single failed lookup must
// not fail the whole listing.
type TripWithUser struct {
	Trip *domain.Trip
	User *domain.User
}

// ListPending retrieves COMPLETED trips awaiting review, newest first,
// with the total count for pagination.
func (s *AdminService) ListPending(ctx context.Context, limit, offset int) ([]TripWithUser, int, error) {
	if limit < 1 || limit > 100 || offset < 0 {
		return nil, 0, ErrInvalidPagination
	}

	trips, count, err := s.tripRepo.ListByStatus(ctx, domain.TripStatusCompleted, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return s.attachUsers(ctx, trips), count, nil
}

// ListAllRequest contains the filters for the audit/history listing.
type ListAllRequest struct {
	Status string
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// ListAll retrieves trips matching the filters, newest first. An unknown
// status filter yields an empty result rather than an error.
func (s *AdminService) ListAll(ctx context.Context, req ListAllRequest) ([]TripWithUser, int, error) {
	if req.Limit < 1 || req.Limit > 100 || req.Offset < 0 {
		return nil, 0, ErrInvalidPagination
	}

	filter := repository.TripFilter{
		UserID: req.UserID,
		From:   req.From,
		To:     req.To,
	}
	if req.Status != "" {
		status := domain.TripStatus(req.Status)
		if !domain.ValidTripStatus(status) {
			return []TripWithUser{}, 0, nil
		}
		filter.Status = status
	}

	trips, count, err := s.tripRepo.ListWithFilters(ctx, filter, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, err
	}

	return s.attachUsers(ctx, trips), count, nil
}

// GetTripDetail retrieves a single trip with its owner's profile for
// review. A missing owner record yields a nil user, not an error.
func (s *AdminService) GetTripDetail(ctx context.Context, tripID string) (*TripWithUser, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	return &TripWithUser{Trip: trip, User: s.userInfoSafe(ctx, trip.UserID)}, nil
}

// Approve advances a COMPLETED trip to APPROVED and credits the frozen
// point award to the owner's balance. With a database handle the status
// update and the credit commit atomically; without one (unit tests, or a
// store lacking cross-aggregate transactions) the status is persisted
// first and the credit follows, which leaves the documented at-least-once
// window on credit failure.
func (s *AdminService) Approve(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := trip.Approve(time.Now().UTC()); err != nil {
		return nil, err
	}

	if s.db != nil {
		if err := s.approveTx(ctx, trip); err != nil {
			return nil, err
		}
	} else {
		if err := s.tripRepo.Update(ctx, trip); err != nil {
			return nil, err
		}
		if trip.Points > 0 {
			if err := s.balance.AddPoints(ctx, trip.UserID, trip.Points); err != nil {
				return nil, err
			}
		}
	}

	s.invalidateStats(ctx)

	return trip, nil
}

// approveTx persists the approval and the credit in one transaction.
func (s *AdminService) approveTx(ctx context.Context, trip *domain.Trip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txUserRepo := postgres.NewUserRepositoryWithTx(tx)

	if err = txTripRepo.Update(ctx, trip); err != nil {
		return err
	}

	if trip.Points > 0 {
		if err = txUserRepo.AddPoints(ctx, trip.UserID, trip.Points); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Reject advances a COMPLETED trip to REJECTED, recording the optional
// reviewer note. No credit is issued.
func (s *AdminService) Reject(ctx context.Context, tripID, note string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := trip.Reject(note, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)

	return trip, nil
}

// DashboardStats aggregates trip counts per status.
type DashboardStats struct {
	Total      int
	Pending    int
	Approved   int
	Rejected   int
	InProgress int
}

// GetDashboardStats aggregates counts per status across all trips,
// served from a short-lived cache when available.
func (s *AdminService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDashboardStats(ctx); err == nil && cached != nil {
			return &DashboardStats{
				Total:      cached.Total,
				Pending:    cached.Pending,
				Approved:   cached.Approved,
				Rejected:   cached.Rejected,
				InProgress: cached.InProgress,
			}, nil
		}
	}

	total, err := s.tripRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.tripRepo.CountByStatus(ctx, domain.TripStatusCompleted)
	if err != nil {
		return nil, err
	}
	approved, err := s.tripRepo.CountByStatus(ctx, domain.TripStatusApproved)
	if err != nil {
		return nil, err
	}
	rejected, err := s.tripRepo.CountByStatus(ctx, domain.TripStatusRejected)
	if err != nil {
		return nil, err
	}
	driving, err := s.tripRepo.CountByStatus(ctx, domain.TripStatusDriving)
	if err != nil {
		return nil, err
	}
	transferred, err := s.tripRepo.CountByStatus(ctx, domain.TripStatusTransferred)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Total:      total,
		Pending:    pending,
		Approved:   approved,
		Rejected:   rejected,
		InProgress: driving + transferred,
	}

	if s.cache != nil {
		_ = s.cache.SetDashboardStats(ctx, &redis.CachedStats{
			Total:      stats.Total,
			Pending:    stats.Pending,
			Approved:   stats.Approved,
			Rejected:   stats.Rejected,
			InProgress: stats.InProgress,
		})
	}

	return stats, nil
}

// attachUsers resolves owner profiles for a page of trips, best effort.
func (s *AdminService) attachUsers(ctx context.Context, trips []*domain.Trip) []TripWithUser {
	result := make([]TripWithUser, 0, len(trips))
	for _, trip := range trips {
		result = append(result, TripWithUser{
			Trip: trip,
			User: s.userInfoSafe(ctx, trip.UserID),
		})
	}
	return result
}

// userInfoSafe looks up a user, returning nil on any failure.
func (s *AdminService) userInfoSafe(ctx context.Context, userID string) *domain.User {
	if s.userRepo == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}

func (s *AdminService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateDashboardStats(ctx)
	}
}
