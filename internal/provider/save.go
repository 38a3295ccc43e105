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
	saveBaseURL       = "https://api.save.finance"
	saveLegacyBaseURL = "https://api.solend.fi"
	saveTimeout       = 10 * time.Second
)

// Main market reserve addresses: USDC, SOL, USDT.
var saveReserveIDs = []string{
	"BgxfHJDzm44T7XG68MYKx7YisTjZu73tVovyZSjJMpmw",
	"8PbodeaosQP19SjYFx855UMqWxH2HynZLdBXmsrbac36",
	"8K9WC8xoh2rtQNY7iEGXtPvfbDCi563SdWhCAhuMP2xE",
}

// SaveProvider fetches Save (formerly Solend) main-market reserves, with an
// automatic fallback to the legacy solend.fi mirror when the primary host
// returns nothing usable.
type SaveProvider struct {
	client    *http.Client
	baseURL   string
	legacyURL string
	tracer    trace.Tracer
}

func NewSaveProvider(tracer trace.Tracer) *SaveProvider {
	return &SaveProvider{
		client:    &http.Client{Timeout: saveTimeout},
		baseURL:   saveBaseURL,
		legacyURL: saveLegacyBaseURL,
		tracer:    tracer,
	}
}

type SaveResult struct {
	Venues map[string]domain.Venue
	Pools  []domain.LendingPool
}

type saveReservesPayload struct {
	Results []struct {
		Reserve struct {
			Liquidity struct {
				MintPubkey         string `json:"mintPubkey"`
				MintDecimals       int    `json:"mintDecimals"`
				AvailableAmount    any    `json:"availableAmount"`
				BorrowedAmountWads string `json:"borrowedAmountWads"`
				MarketPrice        string `json:"marketPrice"`
			} `json:"liquidity"`
		} `json:"reserve"`
		Rates struct {
			SupplyInterest any `json:"supplyInterest"`
			BorrowInterest any `json:"borrowInterest"`
		} `json:"rates"`
	} `json:"results"`
}

// Fetch returns one venue per reserve ("Save: USDC") plus the aggregate
// "Save (Solend)" venue used for headline comparisons.
func (p *SaveProvider) Fetch(ctx context.Context) (*SaveResult, error) {
	_, span := p.tracer.Start(ctx, "save.fetch")
	defer span.End()

	payload, err := p.fetchReserves(ctx)
	if err != nil {
		return nil, err
	}

	out := &SaveResult{Venues: make(map[string]domain.Venue)}
	var bestStable, bestSol float64
	totalTvl := 0.0
	aggregate := make(map[string]domain.Reserve)

	for _, r := range payload.Results {
		liq := r.Reserve.Liquidity
		symbol := domain.KnownMints[liq.MintPubkey]
		if symbol == "" {
			symbol = "UNKNOWN"
		}

		// supplyInterest/borrowInterest are already percent strings.
		supplyApy := asFloat(r.Rates.SupplyInterest)
		borrowApy := asFloat(r.Rates.BorrowInterest)

		decimals := liq.MintDecimals
		if decimals == 0 {
			decimals = 6
		}
		available := asFloat(liq.AvailableAmount) / math.Pow10(decimals)
		borrowed := decode.TokensFromWad(liq.BorrowedAmountWads, decimals)
		priceUsd := decode.FromWad(liq.MarketPrice)
		tvl := (available + borrowed) * priceUsd
		totalTvl += tvl

		reserve := domain.Reserve{SupplyApy: supplyApy, BorrowApy: borrowApy, Tvl: domain.Float(tvl)}
		aggregate[symbol] = reserve

		if supplyApy <= 0 {
			continue
		}

		venueName := "Save: " + symbol
		venue := domain.Venue{
			Name:     venueName,
			Tvl:      domain.Float(tvl),
			Reserves: map[string]domain.Reserve{symbol: reserve},
			Source:   "save-api",
		}
		if domain.IsStable(symbol) {
			venue.StableApy = domain.Float(supplyApy)
			bestStable = math.Max(bestStable, supplyApy)
		}
		if domain.IsSOLType(symbol) {
			venue.SolApy = domain.Float(supplyApy)
			bestSol = math.Max(bestSol, supplyApy)
		}
		out.Venues[venueName] = venue
		out.Pools = append(out.Pools, domain.LendingPool{Name: venueName, Symbol: symbol})
	}

	if len(aggregate) == 0 {
		return nil, fmt.Errorf("save: no reserves decoded")
	}

	combined := domain.Venue{
		Name:     "Save (Solend)",
		Tvl:      domain.Float(totalTvl),
		Reserves: aggregate,
		Source:   "save-api",
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

func (p *SaveProvider) fetchReserves(ctx context.Context) (*saveReservesPayload, error) {
	ids := ""
	for i, id := range saveReserveIDs {
		if i > 0 {
			ids += ","
		}
		ids += id
	}

	var payload saveReservesPayload
	err := getJSON(ctx, p.client, p.baseURL+"/v1/reserves?ids="+ids, nil, &payload)
	if err == nil && len(payload.Results) > 0 {
		return &payload, nil
	}

	payload = saveReservesPayload{}
	if err := getJSON(ctx, p.client, p.legacyURL+"/v1/reserves?ids="+ids, nil, &payload); err != nil {
		return nil, fmt.Errorf("save: primary and legacy endpoints failed: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("save: empty reserve payload from both endpoints")
	}
	return &payload, nil
}
