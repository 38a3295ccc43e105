package provider

import (
	"context"
	"math"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func saveReservePayload() map[string]any {
	return map[string]any{
		"results": []map[string]any{
			{
				"reserve": map[string]any{
					"liquidity": map[string]any{
						"mintPubkey":         "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
						"mintDecimals":       6,
						"availableAmount":    "2000000",
						"borrowedAmountWads": "1000000000000000000000000",
						"marketPrice":        "1000000000000000000",
					},
				},
				"rates": map[string]any{
					"supplyInterest": "4.5",
					"borrowInterest": "6.25",
				},
			},
		},
	}
}

func TestSaveProviderFetch(t *testing.T) {
	t.Parallel()

	provider := NewSaveProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://primary"
	provider.legacyURL = "http://legacy"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Host != "primary" {
				t.Fatalf("expected primary host, got %s", req.URL.Host)
			}
			return jsonResponse(t, http.StatusOK, saveReservePayload()), nil
		}),
	}

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	venue, ok := result.Venues["Save: USDC"]
	if !ok {
		t.Fatalf("expected Save: USDC venue, got %v", result.Venues)
	}
	// Rates are already percent.
	if venue.StableApy == nil || *venue.StableApy != 4.5 {
		t.Fatalf("expected stableApy 4.5, got %v", venue.StableApy)
	}
	// 2 USDC available + 1 USDC borrowed (1e24 wads at 6 decimals) at $1.
	if venue.Tvl == nil || math.Abs(*venue.Tvl-3) > 1e-9 {
		t.Fatalf("expected tvl 3, got %v", venue.Tvl)
	}

	combined, ok := result.Venues["Save (Solend)"]
	if !ok {
		t.Fatal("expected aggregate Save (Solend) venue")
	}
	if combined.Reserves["USDC"].BorrowApy != 6.25 {
		t.Fatalf("expected aggregate borrowApy 6.25, got %+v", combined.Reserves["USDC"])
	}
}

func TestSaveProviderLegacyFallback(t *testing.T) {
	t.Parallel()

	provider := NewSaveProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://primary"
	provider.legacyURL = "http://legacy"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Host == "primary" {
				// Empty payload forces the legacy mirror.
				return jsonResponse(t, http.StatusOK, map[string]any{"results": []any{}}), nil
			}
			return jsonResponse(t, http.StatusOK, saveReservePayload()), nil
		}),
	}

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.Venues["Save: USDC"]; !ok {
		t.Fatalf("expected legacy fallback to produce Save: USDC, got %v", result.Venues)
	}
}
