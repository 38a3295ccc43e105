package provider

import (
	"context"
	"math"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestJupiterLendProviderFetch(t *testing.T) {
	t.Parallel()

	provider := NewJupiterLendProvider(trace.NewNoopTracerProvider().Tracer("test"), "test-key")
	provider.baseURL = "http://example"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("x-api-key") != "test-key" {
				t.Fatalf("missing api key header")
			}
			return jsonResponse(t, http.StatusOK, []map[string]any{
				{
					"symbol":      "jlUSDC",
					"totalRate":   "390",
					"totalAssets": "5000000000",
					"asset": map[string]any{
						"symbol":   "USDC",
						"decimals": 6,
						"price":    1.0,
					},
				},
				{
					"symbol":    "jlBONK",
					"totalRate": "0",
					"asset":     map[string]any{"symbol": "BONK"},
				},
			}), nil
		}),
	}

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	venue, ok := result.Venues["Jupiter Lend: USDC"]
	if !ok {
		t.Fatalf("expected Jupiter Lend: USDC venue, got %v", result.Venues)
	}
	// 390 bps is 3.90 percent.
	if venue.StableApy == nil || *venue.StableApy != 3.9 {
		t.Fatalf("expected stableApy 3.9, got %v", venue.StableApy)
	}
	if venue.Tvl == nil || math.Abs(*venue.Tvl-5000) > 1e-9 {
		t.Fatalf("expected tvl 5000, got %v", venue.Tvl)
	}
	if _, ok := result.Venues["Jupiter Lend: BONK"]; ok {
		t.Fatal("zero-rate pool should be excluded")
	}
}

func TestJupiterLendProviderRequiresKey(t *testing.T) {
	t.Parallel()

	provider := NewJupiterLendProvider(trace.NewNoopTracerProvider().Tracer("test"), "")
	if _, err := provider.Fetch(context.Background()); err == nil {
		t.Fatal("expected error without an API key")
	}
}
