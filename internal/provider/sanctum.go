package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"yield-harbor/internal/decode"
	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	sanctumBaseURL = "https://extra-api.sanctum.so"
	sanctumTimeout = 10 * time.Second

	infMint = "5oVNBeEEQvYi1cX3ir8Dx5n1P7pdxydbGF2X4TxVusJm"
)

// SanctumProvider fetches the INF LST APY. Its result is field-merged into
// any same-named venue at merge time because APY and TVL can come from
// different sub-calls.
type SanctumProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewSanctumProvider(tracer trace.Tracer) *SanctumProvider {
	return &SanctumProvider{
		client:  &http.Client{Timeout: sanctumTimeout},
		baseURL: sanctumBaseURL,
		tracer:  tracer,
	}
}

// Fetch returns the Sanctum venue with the INF staking APY as solApy.
func (p *SanctumProvider) Fetch(ctx context.Context) (*domain.Venue, error) {
	_, span := p.tracer.Start(ctx, "sanctum.fetch")
	defer span.End()

	var payload struct {
		Apys map[string]any `json:"apys"`
	}
	url := p.baseURL + "/v1/apy/latest?lst=" + infMint
	if err := getJSON(ctx, p.client, url, nil, &payload); err != nil {
		return nil, fmt.Errorf("sanctum: %w", err)
	}

	raw, ok := payload.Apys[infMint]
	if !ok {
		raw, ok = payload.Apys["INF"]
	}
	if !ok {
		return nil, fmt.Errorf("sanctum: INF apy missing from response")
	}

	apy := decode.PercentFromFraction(asFloat(raw))
	if apy <= 0 {
		return nil, fmt.Errorf("sanctum: non-positive INF apy")
	}

	venue := &domain.Venue{
		Name:   "Sanctum",
		SolApy: domain.Float(apy),
		Source: "sanctum-api",
	}

	// TVL comes from a separate sub-call and is denominated in SOL; the
	// merge layer converts it to USD once prices are in. This is why the
	// Sanctum venue is field-merged rather than replaced.
	if sol := p.fetchPoolSol(ctx); sol > 0 {
		venue.Tvl = domain.Float(sol)
		venue.TvlInToken = "SOL"
	}

	return venue, nil
}

// fetchPoolSol returns the INF pool's SOL value in whole SOL, 0 on failure.
func (p *SanctumProvider) fetchPoolSol(ctx context.Context) float64 {
	var payload struct {
		SolValues map[string]any `json:"solValues"`
	}
	url := p.baseURL + "/v1/sol-value/current?lst=" + infMint
	if err := getJSON(ctx, p.client, url, nil, &payload); err != nil {
		return 0
	}
	lamports, ok := payload.SolValues[infMint]
	if !ok {
		lamports = payload.SolValues["INF"]
	}
	return asFloat(lamports) / 1e9
}
