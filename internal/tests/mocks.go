package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ecopass/internal/domain"
	"ecopass/internal/redis"
	"ecopass/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	GetError    error
	UpdateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

// GetTrip returns the stored trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trips {
		if t.UserID == trip.UserID && t.IsActive() {
			return repository.ErrActiveTripExists
		}
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetActiveByUserID(ctx context.Context, userID string) (*domain.Trip, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.UserID == userID && t.IsActive() {
			copy := *t
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) ListByStatus(ctx context.Context, status domain.TripStatus, limit, offset int) ([]*domain.Trip, int, error) {
	return m.list(func(t *domain.Trip) bool { return t.Status == status }, limit, offset)
}

func (m *MockTripRepository) ListByUser(ctx context.Context, userID string, status domain.TripStatus, limit, offset int) ([]*domain.Trip, int, error) {
	return m.list(func(t *domain.Trip) bool {
		return t.UserID == userID && (status == "" || t.Status == status)
	}, limit, offset)
}

func (m *MockTripRepository) ListWithFilters(ctx context.Context, filter repository.TripFilter, limit, offset int) ([]*domain.Trip, int, error) {
	return m.list(func(t *domain.Trip) bool {
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		if filter.UserID != "" && t.UserID != filter.UserID {
			return false
		}
		if !filter.From.IsZero() && t.CreatedAt.Before(filter.From) {
			return false
		}
		if !filter.To.IsZero() && t.CreatedAt.After(filter.To) {
			return false
		}
		return true
	}, limit, offset)
}

func (m *MockTripRepository) CountByStatus(ctx context.Context, status domain.TripStatus) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, t := range m.trips {
		if t.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockTripRepository) CountAll(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips), nil
}

func (m *MockTripRepository) list(match func(*domain.Trip) bool, limit, offset int) ([]*domain.Trip, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Trip
	for _, t := range m.trips {
		if match(t) {
			copy := *t
			matched = append(matched, &copy)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	count := len(matched)
	if offset >= count {
		return nil, count, nil
	}
	end := offset + limit
	if end > count {
		end = count
	}
	return matched[offset:end], count, nil
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	AddPointsCallCount int32

	// Error injection
	GetError       error
	AddPointsError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// GetUser returns the stored user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) AddPoints(ctx context.Context, userID string, points int) error {
	atomic.AddInt32(&m.AddPointsCallCount, 1)
	if m.AddPointsError != nil {
		return m.AddPointsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.TotalPoints += points
	return nil
}

// ──────────────────────────────────────────────
// MOCK STATION REPOSITORY
// ──────────────────────────────────────────────

// MockStationRepository is a mock implementation of StationRepository.
type MockStationRepository struct {
	Stations    []domain.Station
	Nearby      []domain.StationDistance
	ParkingLots []domain.ParkingLot

	// Counters for verification
	ListCallCount    int32
	NearbyCallCount  int32
	ParkingCallCount int32

	// Captured arguments from the last FindNearby call
	LastNearbyLimit int
}

// NewMockStationRepository creates a new mock station repository.
func NewMockStationRepository() *MockStationRepository {
	return &MockStationRepository{}
}

func (m *MockStationRepository) ListStations(ctx context.Context, lineNumber int) ([]domain.Station, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if lineNumber == 0 {
		return m.Stations, nil
	}
	var filtered []domain.Station
	for _, s := range m.Stations {
		if s.LineNumber == lineNumber {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (m *MockStationRepository) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.StationDistance, error) {
	atomic.AddInt32(&m.NearbyCallCount, 1)
	m.LastNearbyLimit = limit
	if len(m.Nearby) > limit {
		return m.Nearby[:limit], nil
	}
	return m.Nearby, nil
}

func (m *MockStationRepository) ListParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	atomic.AddInt32(&m.ParkingCallCount, 1)
	return m.ParkingLots, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireUserTripLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:trip_start:" + userID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseUserTripLock(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:trip_start:"+userID)
	return nil
}

// IsLocked checks if a user's start lock is held (for test assertions).
func (m *MockLockStore) IsLocked(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:trip_start:"+userID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu       sync.Mutex
	stations map[int][]domain.Station
	lots     []domain.ParkingLot
	stats    *redis.CachedStats

	// Counters
	SetStatsCallCount   int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		stations: make(map[int][]domain.Station),
	}
}

func (m *MockCacheStore) GetStations(ctx context.Context, lineNumber int) ([]domain.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stations[lineNumber], nil
}

func (m *MockCacheStore) SetStations(ctx context.Context, lineNumber int, stations []domain.Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations[lineNumber] = stations
	return nil
}

func (m *MockCacheStore) GetParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lots, nil
}

func (m *MockCacheStore) SetParkingLots(ctx context.Context, lots []domain.ParkingLot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots = lots
	return nil
}

func (m *MockCacheStore) GetDashboardStats(ctx context.Context) (*redis.CachedStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats, nil
}

func (m *MockCacheStore) SetDashboardStats(ctx context.Context, stats *redis.CachedStats) error {
	atomic.AddInt32(&m.SetStatsCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = stats
	return nil
}

func (m *MockCacheStore) InvalidateDashboardStats(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = nil
	return nil
}
