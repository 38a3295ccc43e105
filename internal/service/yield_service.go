package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"yield-harbor/internal/domain"
	"yield-harbor/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const (
	yieldCacheKey = "yields:aggregate"
	yieldCacheTTL = 30 * time.Second

	historyRetention = 30 * 24 * time.Hour
)

// YieldAggregator produces a fresh aggregate snapshot.
type YieldAggregator interface {
	Fetch(ctx context.Context) *domain.AggregateResponse
}

// RateRepository persists per-venue rate history.
type RateRepository interface {
	UpsertSnapshots(ctx context.Context, fetchedAt time.Time, venues map[string]domain.Venue) error
	GetHistory(ctx context.Context, venue string, limit int) ([]repository.VenueRateSnapshot, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// YieldService fronts the aggregator with a last-known-good Redis cache and
// persists rate history after each successful refresh.
type YieldService struct {
	tracer     trace.Tracer
	aggregator YieldAggregator
	repo       RateRepository
	redis      RedisClient
}

func NewYieldService(
	tracer trace.Tracer,
	aggregator YieldAggregator,
	repo RateRepository,
	redisClient RedisClient,
) *YieldService {
	return &YieldService{
		tracer:     tracer,
		aggregator: aggregator,
		repo:       repo,
		redis:      redisClient,
	}
}

// GetYields returns the cached aggregate when fresh, otherwise refreshes.
// The response is always well-formed; staleness is visible via fetchedAt.
func (s *YieldService) GetYields(ctx context.Context) *domain.AggregateResponse {
	ctx, span := s.tracer.Start(ctx, "yield-service.get-yields")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getCache(ctx)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return cached
		}
	}

	return s.Refresh(ctx)
}

// Refresh runs a full aggregation pass, caches the result and persists the
// venue snapshots. Persistence is best-effort: a database problem must not
// cost the caller their response.
func (s *YieldService) Refresh(ctx context.Context) *domain.AggregateResponse {
	ctx, span := s.tracer.Start(ctx, "yield-service.refresh")
	defer span.End()

	resp := s.aggregator.Fetch(ctx)

	if s.redis != nil {
		if err := s.setCache(ctx, resp); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}

	if s.repo != nil && len(resp.Venues) > 0 {
		fetchedAt, err := time.Parse(time.RFC3339, resp.FetchedAt)
		if err != nil {
			fetchedAt = time.Now().UTC()
		}
		if err := s.repo.UpsertSnapshots(ctx, fetchedAt, resp.Venues); err != nil {
			log.Printf("rate history persist error: %v", err)
		}
		if err := s.repo.DeleteOlderThan(ctx, fetchedAt.Add(-historyRetention)); err != nil {
			log.Printf("rate history retention error: %v", err)
		}
	}

	log.Printf("Refreshed yields: %d venues in %dms", len(resp.Venues), resp.Elapsed)
	return resp
}

// GetHistory returns stored rate snapshots for one venue.
func (s *YieldService) GetHistory(ctx context.Context, venue string, limit int) ([]repository.VenueRateSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "yield-service.get-history")
	defer span.End()

	if s.repo == nil {
		return nil, errors.New("rate history unavailable: no database configured")
	}
	return s.repo.GetHistory(ctx, venue, limit)
}

func (s *YieldService) setCache(ctx context.Context, resp *domain.AggregateResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, yieldCacheKey, data, yieldCacheTTL).Err()
}

func (s *YieldService) getCache(ctx context.Context) (*domain.AggregateResponse, error) {
	data, err := s.redis.Get(ctx, yieldCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp domain.AggregateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	// Venue names are not serialized inside each venue; restore them from
	// the map keys so downstream consumers see the same shape as a fresh
	// response.
	for name, v := range resp.Venues {
		v.Name = name
		resp.Venues[name] = v
	}
	return &resp, nil
}
