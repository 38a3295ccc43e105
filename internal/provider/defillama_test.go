package provider

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestDefiLlamaProviderFetch(t *testing.T) {
	t.Parallel()

	provider := NewDefiLlamaProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example/pools"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(t, http.StatusOK, map[string]any{
				"data": []map[string]any{
					{"chain": "Solana", "project": "marginfi", "symbol": "USDC", "apy": 5.1, "tvlUsd": 1000000},
					{"chain": "Solana", "project": "marginfi", "symbol": "SOL", "apy": 3.2, "tvlUsd": 2000000},
					{"chain": "Ethereum", "project": "marginfi", "symbol": "USDC", "apy": 99.0, "tvlUsd": 1},
					{"chain": "Solana", "project": "unmapped-project", "symbol": "USDC", "apy": 50.0, "tvlUsd": 1},
				},
			}), nil
		}),
	}

	venues, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	venue, ok := venues["MarginFi"]
	if !ok {
		t.Fatalf("expected MarginFi venue, got %v", venues)
	}
	if venue.StableApy == nil || *venue.StableApy != 5.1 {
		t.Fatalf("expected stableApy 5.1, got %v", venue.StableApy)
	}
	if venue.SolApy == nil || *venue.SolApy != 3.2 {
		t.Fatalf("expected solApy 3.2, got %v", venue.SolApy)
	}
	if venue.Tvl == nil || *venue.Tvl != 3000000 {
		t.Fatalf("expected pooled tvl 3000000, got %v", venue.Tvl)
	}
	if venue.Source != "defillama" {
		t.Fatalf("expected defillama source, got %s", venue.Source)
	}
	if len(venues) != 1 {
		t.Fatalf("non-Solana and unmapped pools must be excluded, got %v", venues)
	}
}
