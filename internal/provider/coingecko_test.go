package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestCoinGeckoProviderFetch(t *testing.T) {
	t.Parallel()

	provider := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.limiter = NewRateLimiter(10, time.Millisecond)
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/simple/price") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if !strings.Contains(req.URL.RawQuery, "solana") {
				t.Fatalf("expected solana in query, got %s", req.URL.RawQuery)
			}
			return jsonResponse(t, http.StatusOK, map[string]any{
				"solana":   map[string]any{"usd": 150.0},
				"usd-coin": map[string]any{"usd": 1.0},
				"unknown":  map[string]any{"usd": 3.0},
			}), nil
		}),
	}

	prices, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prices["SOL"] != 150 || prices["USDC"] != 1 {
		t.Fatalf("unexpected prices: %v", prices)
	}
	if len(prices) != 2 {
		t.Fatalf("unmapped ids must be dropped, got %v", prices)
	}
}

func TestSanctumProviderFetch(t *testing.T) {
	t.Parallel()

	provider := NewSanctumProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if strings.Contains(req.URL.Path, "/v1/apy/latest") {
				return jsonResponse(t, http.StatusOK, map[string]any{
					"apys": map[string]any{infMint: 0.08},
				}), nil
			}
			if strings.Contains(req.URL.Path, "/v1/sol-value/current") {
				return jsonResponse(t, http.StatusOK, map[string]any{
					"solValues": map[string]any{infMint: "5000000000000"},
				}), nil
			}
			t.Fatalf("unexpected path: %s", req.URL.Path)
			return nil, nil
		}),
	}

	venue, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if venue.Name != "Sanctum" {
		t.Fatalf("expected Sanctum venue, got %s", venue.Name)
	}
	if venue.SolApy == nil || *venue.SolApy != 8 {
		t.Fatalf("expected solApy 8, got %v", venue.SolApy)
	}
	// 5e12 lamports is 5000 SOL, still token-denominated at this point.
	if venue.Tvl == nil || *venue.Tvl != 5000 {
		t.Fatalf("expected tvl 5000 SOL, got %v", venue.Tvl)
	}
	if venue.TvlInToken != "SOL" {
		t.Fatalf("expected SOL-denominated tvl, got %q", venue.TvlInToken)
	}
}
