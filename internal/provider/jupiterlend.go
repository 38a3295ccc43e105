package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"yield-harbor/internal/decode"
	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	jupiterBaseURL = "https://api.jup.ag"
	jupiterTimeout = 10 * time.Second
)

// JupiterLendProvider fetches Jupiter Lend earn tokens. The API requires a
// key; without one the source degrades to unavailable.
type JupiterLendProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewJupiterLendProvider(tracer trace.Tracer, apiKey string) *JupiterLendProvider {
	return &JupiterLendProvider{
		client:  &http.Client{Timeout: jupiterTimeout},
		baseURL: jupiterBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

type JupiterResult struct {
	Venues map[string]domain.Venue
	Pools  []domain.LendingPool
}

type jupiterToken struct {
	Symbol    string `json:"symbol"`
	Decimals  int    `json:"decimals"`
	TotalRate any    `json:"totalRate"`
	TotalAssets any  `json:"totalAssets"`
	Asset     struct {
		Symbol   string `json:"symbol"`
		UISymbol string `json:"uiSymbol"`
		Decimals int    `json:"decimals"`
		Price    any    `json:"price"`
	} `json:"asset"`
}

// Fetch returns one venue per earn pool ("Jupiter Lend: USDC").
func (p *JupiterLendProvider) Fetch(ctx context.Context) (*JupiterResult, error) {
	_, span := p.tracer.Start(ctx, "jupiter-lend.fetch")
	defer span.End()

	if p.apiKey == "" {
		return nil, fmt.Errorf("jupiter lend: no API key configured")
	}

	var tokens []jupiterToken
	headers := map[string]string{"x-api-key": p.apiKey}
	if err := getJSON(ctx, p.client, p.baseURL+"/lend/v1/earn/tokens", headers, &tokens); err != nil {
		return nil, fmt.Errorf("jupiter lend: %w", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("jupiter lend: empty token list")
	}

	out := &JupiterResult{Venues: make(map[string]domain.Venue)}
	for _, token := range tokens {
		symbol := token.Asset.UISymbol
		if symbol == "" {
			symbol = token.Asset.Symbol
		}
		if symbol == "" {
			symbol = token.Symbol
		}
		if symbol == "" {
			continue
		}

		// totalRate is basis points: 390 = 3.90%.
		apy := decode.PercentFromBps(asFloat(token.TotalRate))
		if apy <= 0 {
			continue
		}

		decimals := token.Asset.Decimals
		if decimals == 0 {
			decimals = token.Decimals
		}
		if decimals == 0 {
			decimals = 6
		}
		price := asFloat(token.Asset.Price)
		tvl := asFloat(token.TotalAssets) / math.Pow10(decimals) * price

		venueName := "Jupiter Lend: " + symbol
		venue := domain.Venue{
			Name:     venueName,
			Tvl:      domain.Float(tvl),
			Reserves: map[string]domain.Reserve{symbol: {SupplyApy: apy, Tvl: domain.Float(tvl)}},
			Source:   "jup-lend-api",
		}
		if domain.IsStable(symbol) {
			venue.StableApy = domain.Float(apy)
		}
		if domain.IsSOLType(symbol) {
			venue.SolApy = domain.Float(apy)
		}
		out.Venues[venueName] = venue
		out.Pools = append(out.Pools, domain.LendingPool{Name: venueName, Symbol: symbol})
	}

	if len(out.Venues) == 0 {
		return nil, fmt.Errorf("jupiter lend: no pools with positive rates")
	}
	return out, nil
}
