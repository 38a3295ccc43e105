package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestLoopscaleProviderFetchV2(t *testing.T) {
	t.Parallel()

	provider := NewLoopscaleProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.HasSuffix(req.URL.Path, "/v2/markets") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			return jsonResponse(t, http.StatusOK, []map[string]any{
				{
					"principalMint":     "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
					"externalYieldInfo": map[string]any{"apy": 100000},
				},
				{
					"principalMint":     "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
					"externalYieldInfo": map[string]any{"apy": 80000},
				},
			}), nil
		}),
	}

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	venue, ok := result.Venues["Loopscale: USDC"]
	if !ok {
		t.Fatalf("expected Loopscale: USDC venue, got %v", result.Venues)
	}
	// 100000 centi-bps is 10 percent; the higher of the two markets wins.
	if venue.StableApy == nil || *venue.StableApy != 10 {
		t.Fatalf("expected stableApy 10, got %v", venue.StableApy)
	}
	if !venue.NoImpact {
		t.Fatal("fixed-rate venues must be flagged noImpact")
	}
}

func TestLoopscaleProviderV1Fallback(t *testing.T) {
	t.Parallel()

	provider := NewLoopscaleProvider(trace.NewNoopTracerProvider().Tracer("test"))
	provider.baseURL = "http://example"
	provider.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if strings.HasSuffix(req.URL.Path, "/v2/markets") {
				return textResponse(http.StatusInternalServerError, "down"), nil
			}
			if !strings.HasSuffix(req.URL.Path, "/v1/markets/quote") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			return jsonResponse(t, http.StatusOK, []map[string]any{
				{"apy": 65000},
			}), nil
		}),
	}

	result, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	venue, ok := result.Venues["Loopscale: USDC"]
	if !ok {
		t.Fatalf("expected v1 fallback venue, got %v", result.Venues)
	}
	if venue.StableApy == nil || *venue.StableApy != 6.5 {
		t.Fatalf("expected stableApy 6.5, got %v", venue.StableApy)
	}
}
