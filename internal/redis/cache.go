package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ecopass/internal/domain"
)

// CacheStore handles reference-data and aggregate caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	StationCacheTTL = 10 * time.Minute // Station reference data rarely changes
	StatsCacheTTL   = 30 * time.Second // Dashboard counts move with reviews
)

// Key prefixes
const (
	stationCachePrefix = "cache:stations:"
	parkingCacheKey    = "cache:parking_lots"
	statsCacheKey      = "cache:dashboard_stats"
)

// GetStations retrieves a cached station list for a line (0 = all lines).
// Returns nil on cache miss.
func (s *CacheStore) GetStations(ctx context.Context, lineNumber int) ([]domain.Station, error) {
	key := fmt.Sprintf("%s%d", stationCachePrefix, lineNumber)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var stations []domain.Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// SetStations caches a station list for a line.
func (s *CacheStore) SetStations(ctx context.Context, lineNumber int, stations []domain.Station) error {
	key := fmt.Sprintf("%s%d", stationCachePrefix, lineNumber)
	data, err := json.Marshal(stations)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, StationCacheTTL).Err()
}

// GetParkingLots retrieves the cached parking-lot list. Returns nil on
// cache miss.
func (s *CacheStore) GetParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	data, err := s.client.Get(ctx, parkingCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var lots []domain.ParkingLot
	if err := json.Unmarshal(data, &lots); err != nil {
		return nil, err
	}
	return lots, nil
}

// SetParkingLots caches the parking-lot list.
func (s *CacheStore) SetParkingLots(ctx context.Context, lots []domain.ParkingLot) error {
	data, err := json.Marshal(lots)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, parkingCacheKey, data, StationCacheTTL).Err()
}

// CachedStats mirrors the dashboard aggregation for short-lived caching.
type CachedStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
	InProgress int `json:"in_progress"`
}

// GetDashboardStats retrieves cached dashboard stats. Returns nil on
// cache miss.
func (s *CacheStore) GetDashboardStats(ctx context.Context) (*CachedStats, error) {
	data, err := s.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var stats CachedStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetDashboardStats caches dashboard stats.
func (s *CacheStore) SetDashboardStats(ctx context.Context, stats *CachedStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsCacheKey, data, StatsCacheTTL).Err()
}

// InvalidateDashboardStats removes the cached stats; called after a
// review decision so the dashboard reflects it promptly.
func (s *CacheStore) InvalidateDashboardStats(ctx context.Context) error {
	return s.client.Del(ctx, statsCacheKey).Err()
}
