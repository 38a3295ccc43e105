package repository

import (
	"context"
	"time"

	"yield-harbor/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createVenueRatesTable = `
CREATE TABLE IF NOT EXISTS venue_rates (
    venue       TEXT        NOT NULL,
    fetched_at  TIMESTAMPTZ NOT NULL,
    stable_apy  NUMERIC,
    sol_apy     NUMERIC,
    tvl         NUMERIC,
    source      TEXT        NOT NULL,
    PRIMARY KEY (venue, fetched_at)
);

CREATE INDEX IF NOT EXISTS idx_venue_rates_venue_time
    ON venue_rates (venue, fetched_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// VenueRateSnapshot is one venue's headline rates at a point in time.
type VenueRateSnapshot struct {
	Venue     string    `json:"venue"`
	FetchedAt time.Time `json:"fetchedAt"`
	StableApy *float64  `json:"stableApy"`
	SolApy    *float64  `json:"solApy"`
	Tvl       *float64  `json:"tvl"`
	Source    string    `json:"source"`
}

// VenueRateRepository persists per-venue rate history so the API can show
// how a venue's APY moved over time.
type VenueRateRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewVenueRateRepository(pool PgxPool, tracer trace.Tracer) *VenueRateRepository {
	return &VenueRateRepository{pool: pool, tracer: tracer}
}

func (r *VenueRateRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "venue-rate-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createVenueRatesTable)
	return err
}

// UpsertSnapshots writes one row per venue for a single fetch pass.
func (r *VenueRateRepository) UpsertSnapshots(ctx context.Context, fetchedAt time.Time, venues map[string]domain.Venue) error {
	if len(venues) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "venue-rate-repo.upsert-snapshots")
	defer span.End()

	batch := &pgx.Batch{}
	for name, v := range venues {
		batch.Queue(
			`INSERT INTO venue_rates (venue, fetched_at, stable_apy, sol_apy, tvl, source)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (venue, fetched_at) DO UPDATE SET
			     stable_apy = EXCLUDED.stable_apy,
			     sol_apy = EXCLUDED.sol_apy,
			     tvl = EXCLUDED.tvl,
			     source = EXCLUDED.source`,
			name, fetchedAt, v.StableApy, v.SolApy, v.Tvl, v.Source,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range venues {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetHistory returns the newest snapshots for a venue, newest first.
func (r *VenueRateRepository) GetHistory(ctx context.Context, venue string, limit int) ([]VenueRateSnapshot, error) {
	_, span := r.tracer.Start(ctx, "venue-rate-repo.get-history")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT venue, fetched_at, stable_apy, sol_apy, tvl, source
		 FROM venue_rates
		 WHERE venue = $1
		 ORDER BY fetched_at DESC
		 LIMIT $2`,
		venue, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []VenueRateSnapshot
	for rows.Next() {
		var s VenueRateSnapshot
		if err := rows.Scan(&s.Venue, &s.FetchedAt, &s.StableApy, &s.SolApy, &s.Tvl, &s.Source); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// DeleteOlderThan trims history beyond the retention window.
func (r *VenueRateRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	_, span := r.tracer.Start(ctx, "venue-rate-repo.delete-older-than")
	defer span.End()

	_, err := r.pool.Exec(ctx, `DELETE FROM venue_rates WHERE fetched_at < $1`, cutoff)
	return err
}
