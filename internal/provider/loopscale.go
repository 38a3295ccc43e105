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
	loopscaleBaseURL = "https://tars.loopscale.com"
	loopscaleTimeout = 10 * time.Second
)

type loopscalePrincipal struct {
	mint   string
	symbol string
}

var loopscalePrincipals = []loopscalePrincipal{
	{"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "USDC"},
	{"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", "USDT"},
	{"So11111111111111111111111111111111111111112", "SOL"},
}

// LoopscaleProvider fetches fixed-rate order book quotes. The v2 market
// list is the primary path; the v1 quote endpoint is the per-principal
// fallback. Both encode APY in centi-basis-points.
type LoopscaleProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewLoopscaleProvider(tracer trace.Tracer) *LoopscaleProvider {
	return &LoopscaleProvider{
		client:  &http.Client{Timeout: loopscaleTimeout},
		baseURL: loopscaleBaseURL,
		tracer:  tracer,
	}
}

type LoopscaleResult struct {
	Venues map[string]domain.Venue
	Pools  []domain.LendingPool
}

// Fetch returns one venue per principal token ("Loopscale: USDC"). A
// principal with no usable quote is skipped, not an error.
func (p *LoopscaleProvider) Fetch(ctx context.Context) (*LoopscaleResult, error) {
	_, span := p.tracer.Start(ctx, "loopscale.fetch")
	defer span.End()

	v2 := p.fetchV2Markets(ctx)

	out := &LoopscaleResult{Venues: make(map[string]domain.Venue)}
	for _, principal := range loopscalePrincipals {
		apy := v2[principal.mint]
		if apy <= 0 {
			apy = p.quoteV1(ctx, principal.mint)
		}
		if apy <= 0 {
			continue
		}

		venueName := "Loopscale: " + principal.symbol
		venue := domain.Venue{
			Name:     venueName,
			Reserves: map[string]domain.Reserve{principal.symbol: {SupplyApy: apy}},
			Source:   "loopscale-api",
			NoImpact: true,
		}
		if domain.IsStable(principal.symbol) {
			venue.StableApy = domain.Float(apy)
		}
		if domain.IsSOLType(principal.symbol) {
			venue.SolApy = domain.Float(apy)
		}
		out.Venues[venueName] = venue
		out.Pools = append(out.Pools, domain.LendingPool{Name: venueName, Symbol: principal.symbol})
	}

	if len(out.Venues) == 0 {
		return nil, fmt.Errorf("loopscale: no principals quoted")
	}
	return out, nil
}

// fetchV2Markets returns the best externalYieldInfo APY per principal mint,
// in percent. An empty map on any failure routes callers to the v1 path.
func (p *LoopscaleProvider) fetchV2Markets(ctx context.Context) map[string]float64 {
	var markets []struct {
		PrincipalMint     string `json:"principalMint"`
		ExternalYieldInfo struct {
			Apy any `json:"apy"`
		} `json:"externalYieldInfo"`
	}
	if err := getJSON(ctx, p.client, p.baseURL+"/v2/markets", nil, &markets); err != nil {
		return nil
	}

	best := make(map[string]float64)
	for _, m := range markets {
		apy := decode.PercentFromCentiBps(asFloat(m.ExternalYieldInfo.Apy))
		if apy > best[m.PrincipalMint] {
			best[m.PrincipalMint] = apy
		}
	}
	return best
}

// quoteV1 asks the legacy quote endpoint for one-month offers on a
// principal and returns the best APY in percent, 0 on failure.
func (p *LoopscaleProvider) quoteV1(ctx context.Context, mint string) float64 {
	payload := map[string]any{
		"durationType": 2, // months
		"duration":     1, // closest to a spot rate
		"principal":    mint,
		"collateral":   []string{},
		"limit":        5,
		"offset":       0,
	}
	headers := map[string]string{"user-wallet": "11111111111111111111111111111111"}

	var quotes []struct {
		Apy any `json:"apy"`
	}
	if err := postJSON(ctx, p.client, p.baseURL+"/v1/markets/quote", headers, payload, &quotes); err != nil {
		return 0
	}

	best := 0.0
	for _, q := range quotes {
		if apy := decode.PercentFromCentiBps(asFloat(q.Apy)); apy > best {
			best = apy
		}
	}
	return best
}
