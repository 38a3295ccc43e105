package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	defiLlamaURL = "https://yields.llama.fi/pools"
	// The pool list is the largest payload of any source, several MB.
	defiLlamaTimeout = 20 * time.Second
)

// DefiLlamaProvider is the fallback layer: it covers protocols without a
// direct integration via DeFiLlama's aggregated pool list. Its venues carry
// the lowest merge priority, so any direct source overrides them.
type DefiLlamaProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewDefiLlamaProvider(tracer trace.Tracer) *DefiLlamaProvider {
	return &DefiLlamaProvider{
		client:  &http.Client{Timeout: defiLlamaTimeout},
		baseURL: defiLlamaURL,
		tracer:  tracer,
	}
}

type defiLlamaPool struct {
	Chain   string `json:"chain"`
	Project string `json:"project"`
	Symbol  string `json:"symbol"`
	Apy     any    `json:"apy"`
	TvlUsd  any    `json:"tvlUsd"`
}

// Fetch groups Solana pools by mapped project into venues. Within a venue
// the best stable and SOL APYs win and pool TVLs are summed.
func (p *DefiLlamaProvider) Fetch(ctx context.Context) (map[string]domain.Venue, error) {
	_, span := p.tracer.Start(ctx, "defillama.fetch")
	defer span.End()

	var payload struct {
		Data []defiLlamaPool `json:"data"`
	}
	if err := getJSON(ctx, p.client, p.baseURL, nil, &payload); err != nil {
		return nil, fmt.Errorf("defillama pools: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("defillama pools: empty list")
	}

	venues := make(map[string]domain.Venue)
	for _, pool := range payload.Data {
		if pool.Chain != "Solana" {
			continue
		}
		venueName, ok := domain.DefiLlamaProjects[pool.Project]
		if !ok {
			continue
		}
		apy := asFloat(pool.Apy)
		tvl := asFloat(pool.TvlUsd)

		venue, exists := venues[venueName]
		if !exists {
			venue = domain.Venue{
				Name:     venueName,
				Reserves: make(map[string]domain.Reserve),
				Source:   "defillama",
			}
		}

		if pool.Symbol != "" && apy > 0 {
			existing, has := venue.Reserves[pool.Symbol]
			if !has || apy > existing.SupplyApy {
				venue.Reserves[pool.Symbol] = domain.Reserve{SupplyApy: apy, Tvl: domain.Float(tvl)}
			}
		}
		if apy > 0 && domain.IsStable(pool.Symbol) {
			if venue.StableApy == nil || apy > *venue.StableApy {
				venue.StableApy = domain.Float(apy)
			}
		}
		if apy > 0 && domain.IsSOLType(pool.Symbol) {
			if venue.SolApy == nil || apy > *venue.SolApy {
				venue.SolApy = domain.Float(apy)
			}
		}
		if tvl > 0 {
			total := tvl
			if venue.Tvl != nil {
				total += *venue.Tvl
			}
			venue.Tvl = domain.Float(total)
		}

		venues[venueName] = venue
	}

	if len(venues) == 0 {
		return nil, fmt.Errorf("defillama pools: no mapped Solana pools")
	}
	return venues, nil
}
