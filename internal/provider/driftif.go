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
	driftDataBaseURL = "https://data.api.drift.trade"
	driftIFTimeout   = 10 * time.Second
)

// Headline rates only consider major tokens so niche insurance-fund vaults
// (ZEUS, JTO, INF) cannot inflate the protocol-level numbers.
var (
	driftHeadlineStables = map[string]bool{"USDC": true, "USDT": true, "PYUSD": true, "USDS": true}
	driftHeadlineSol     = map[string]bool{"SOL": true, "JitoSOL": true, "jitoSOL": true, "mSOL": true, "bSOL": true}
)

// DriftIFProvider fetches Drift insurance-fund vault APYs plus the latest
// USDC/SOL deposit rates, which are more current than the IF series.
type DriftIFProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewDriftIFProvider(tracer trace.Tracer) *DriftIFProvider {
	return &DriftIFProvider{
		client:  &http.Client{Timeout: driftIFTimeout},
		baseURL: driftDataBaseURL,
		tracer:  tracer,
	}
}

type DriftIFResult struct {
	Venues map[string]domain.Venue
	Pools  []domain.LendingPool
}

type driftRateHistory struct {
	Rates [][]any `json:"rates"`
}

// Fetch returns one venue per insurance-fund market ("Drift IF: USDC") plus
// the aggregate "Drift Vaults" venue carrying the headline rates.
func (p *DriftIFProvider) Fetch(ctx context.Context) (*DriftIFResult, error) {
	_, span := p.tracer.Start(ctx, "drift-if.fetch")
	defer span.End()

	var ifPayload struct {
		Data struct {
			MarketSharePriceData []struct {
				Symbol string `json:"symbol"`
				Apy    any    `json:"apy"`
			} `json:"marketSharePriceData"`
		} `json:"data"`
	}
	if err := getJSON(ctx, p.client, p.baseURL+"/stats/insuranceFund", nil, &ifPayload); err != nil {
		return nil, fmt.Errorf("drift insurance fund: %w", err)
	}
	markets := ifPayload.Data.MarketSharePriceData
	if len(markets) == 0 {
		return nil, fmt.Errorf("drift insurance fund: no market data")
	}

	out := &DriftIFResult{Venues: make(map[string]domain.Venue)}
	var bestStable, bestSol float64
	aggregate := make(map[string]domain.Reserve)

	for _, m := range markets {
		// IF APYs are already percent.
		apy := asFloat(m.Apy)
		if m.Symbol == "" || apy <= 0 {
			continue
		}

		aggregate[m.Symbol] = domain.Reserve{SupplyApy: apy}

		venueName := "Drift IF: " + m.Symbol
		venue := domain.Venue{
			Name:     venueName,
			Reserves: map[string]domain.Reserve{m.Symbol: {SupplyApy: apy}},
			Source:   "drift-api",
			NoImpact: true,
		}
		if domain.IsStable(m.Symbol) {
			venue.StableApy = domain.Float(apy)
		}
		if domain.IsSOLType(m.Symbol) {
			venue.SolApy = domain.Float(apy)
		}
		out.Venues[venueName] = venue
		out.Pools = append(out.Pools, domain.LendingPool{Name: venueName, Symbol: m.Symbol})

		if driftHeadlineStables[m.Symbol] && apy > bestStable {
			bestStable = apy
		}
		if driftHeadlineSol[m.Symbol] && apy > bestSol {
			bestSol = apy
		}
	}

	// Latest deposit rates override the IF series when higher.
	if rate := p.latestDepositRate(ctx, "USDC"); rate > bestStable {
		bestStable = rate
	}
	if rate := p.latestDepositRate(ctx, "SOL"); rate > bestSol {
		bestSol = rate
	}

	if len(aggregate) == 0 && bestStable <= 0 && bestSol <= 0 {
		return nil, fmt.Errorf("drift insurance fund: nothing usable")
	}

	combined := domain.Venue{
		Name:     "Drift Vaults",
		Reserves: aggregate,
		Source:   "drift-api",
		NoImpact: true,
	}
	if bestStable > 0 {
		combined.StableApy = domain.Float(bestStable)
	}
	if bestSol > 0 {
		combined.SolApy = domain.Float(bestSol)
	}
	out.Venues[combined.Name] = combined

	return out, nil
}

// latestDepositRate returns the newest deposit rate for a symbol in
// percent, or 0 when the history is unavailable.
func (p *DriftIFProvider) latestDepositRate(ctx context.Context, symbol string) float64 {
	var history driftRateHistory
	url := fmt.Sprintf("%s/stats/%s/rateHistory/deposit", p.baseURL, symbol)
	if err := getJSON(ctx, p.client, url, nil, &history); err != nil {
		return 0
	}
	if len(history.Rates) == 0 {
		return 0
	}
	last := history.Rates[len(history.Rates)-1]
	if len(last) < 2 {
		return 0
	}
	return decode.PercentFromFraction(asFloat(last[1]))
}
