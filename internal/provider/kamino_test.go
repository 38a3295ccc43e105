package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestKaminoProviderFetch(t *testing.T) {
	t.Parallel()

	provider := NewKaminoProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			switch {
			case strings.HasSuffix(req.URL.Path, "/v2/kamino-market"):
				return jsonResponse(t, http.StatusOK, []map[string]any{
					{"lendingMarket": "MKT1", "name": "Main Market", "isPrimary": true},
				}), nil
			case strings.Contains(req.URL.Path, "/kamino-market/MKT1/reserves/metrics"):
				return jsonResponse(t, http.StatusOK, []map[string]any{
					{
						"liquidityTokenMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
						"supplyApy":          "0.12",
						"borrowApy":          "0.18",
						"totalSupplyUsd":     "1000000",
					},
					{
						"liquidityTokenMint": "So11111111111111111111111111111111111111112",
						"supplyApy":          0.07,
						"borrowApy":          0.09,
						"totalSupplyUsd":     500000,
					},
				}), nil
			default:
				t.Fatalf("unexpected path: %s", req.URL.Path)
				return nil, nil
			}
		}),
	}

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	venue, ok := result.Venues["Kamino: Main Market"]
	if !ok {
		t.Fatalf("expected Kamino: Main Market venue, got %v", result.Venues)
	}
	// 0.12 decimal fraction is 12 percent.
	if venue.StableApy == nil || *venue.StableApy != 12 {
		t.Fatalf("expected stableApy 12, got %v", venue.StableApy)
	}
	if venue.SolApy == nil || *venue.SolApy != 7 {
		t.Fatalf("expected solApy 7, got %v", venue.SolApy)
	}
	usdc := venue.Reserves["USDC"]
	if usdc.BorrowApy != 18 {
		t.Fatalf("expected USDC borrowApy 18, got %f", usdc.BorrowApy)
	}
	if venue.Tvl == nil || *venue.Tvl != 1500000 {
		t.Fatalf("expected tvl 1500000, got %v", venue.Tvl)
	}
	if len(result.Markets) != 1 || result.Markets[0].Pubkey != "MKT1" {
		t.Fatalf("unexpected market metadata: %+v", result.Markets)
	}
}

func TestKaminoProviderDiscoveryFallback(t *testing.T) {
	t.Parallel()

	provider := NewKaminoProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if strings.HasSuffix(req.URL.Path, "/v2/kamino-market") {
				return textResponse(http.StatusInternalServerError, "boom"), nil
			}
			if strings.Contains(req.URL.Path, "/reserves/metrics") {
				// Wrapped shape with a reserves key.
				return jsonResponse(t, http.StatusOK, map[string]any{
					"reserves": []map[string]any{
						{
							"liquidityTokenMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
							"supplyApy":          "0.05",
							"borrowApy":          "0.08",
							"totalSupplyUsd":     "100",
						},
					},
				}), nil
			}
			t.Fatalf("unexpected path: %s", req.URL.Path)
			return nil, nil
		}),
	}

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	venue, ok := result.Venues["Kamino: Main Market"]
	if !ok {
		t.Fatalf("expected fallback Main Market venue, got %v", result.Venues)
	}
	if venue.StableApy == nil || *venue.StableApy != 5 {
		t.Fatalf("expected stableApy 5, got %v", venue.StableApy)
	}
}
