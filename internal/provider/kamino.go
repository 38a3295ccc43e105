package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"yield-harbor/internal/decode"
	"yield-harbor/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const kaminoBaseURL = "https://api.kamino.finance"

// Markets are discovered dynamically; this single market is the fallback if
// the discovery endpoint itself fails.
var kaminoFallbackMarkets = map[string]string{
	"7u3HeHxYDLhnCoErrtycNokbQYbWGzLs6JSDqGAv5PfF": "Main Market",
}

const (
	kaminoDiscoveryTimeout = 10 * time.Second
	kaminoReservesTimeout  = 15 * time.Second
)

// KaminoProvider fetches lending reserves for every discovered Kamino
// market and emits one venue per market.
type KaminoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewKaminoProvider(tracer trace.Tracer) *KaminoProvider {
	return &KaminoProvider{
		client:  &http.Client{Timeout: kaminoReservesTimeout},
		baseURL: kaminoBaseURL,
		tracer:  tracer,
	}
}

// KaminoResult is one venue per market plus the market metadata the client
// uses for grouping.
type KaminoResult struct {
	Venues  map[string]domain.Venue
	Markets []domain.KaminoMarket
}

type kaminoMarketEntry struct {
	LendingMarket string `json:"lendingMarket"`
	Name          string `json:"name"`
	IsPrimary     bool   `json:"isPrimary"`
	IsCurated     bool   `json:"isCurated"`
	Description   string `json:"description"`
}

type kaminoReserve struct {
	LiquidityTokenMint string `json:"liquidityTokenMint"`
	LiquidityToken     string `json:"liquidityToken"`
	SupplyApy          any    `json:"supplyApy"`
	BorrowApy          any    `json:"borrowApy"`
	TotalSupplyUsd     any    `json:"totalSupplyUsd"`
}

// Fetch discovers markets, pulls every market's reserves in parallel and
// normalizes them. A market that fails to fetch or decode is skipped.
func (p *KaminoProvider) Fetch(ctx context.Context) (*KaminoResult, error) {
	_, span := p.tracer.Start(ctx, "kamino.fetch")
	defer span.End()

	markets := p.discoverMarkets(ctx)
	if len(markets) == 0 {
		return nil, fmt.Errorf("kamino: no markets discovered")
	}

	type marketReserves struct {
		market   kaminoMarketEntry
		reserves []kaminoReserve
	}

	results := make([]marketReserves, len(markets))
	var wg sync.WaitGroup
	for i, m := range markets {
		wg.Add(1)
		go func(i int, m kaminoMarketEntry) {
			defer wg.Done()
			reserves, err := p.fetchMarketReserves(ctx, m.LendingMarket)
			if err != nil {
				return
			}
			results[i] = marketReserves{market: m, reserves: reserves}
		}(i, m)
	}
	wg.Wait()

	out := &KaminoResult{Venues: make(map[string]domain.Venue)}
	for _, mr := range results {
		if len(mr.reserves) == 0 {
			continue
		}

		marketName := mr.market.Name
		if marketName == "" {
			marketName = "Unknown Market"
		}
		venueName := "Kamino: " + marketName

		var stableApys, solApys []float64
		totalTvl := 0.0
		reserves := make(map[string]domain.Reserve, len(mr.reserves))

		for _, item := range mr.reserves {
			symbol := domain.KnownMints[item.LiquidityTokenMint]
			if symbol == "" {
				symbol = item.LiquidityToken
			}
			if symbol == "" {
				symbol = "UNKNOWN"
			}
			// supplyApy/borrowApy arrive as decimal fraction strings.
			supplyApy := decode.PercentFromFraction(asFloat(item.SupplyApy))
			borrowApy := decode.PercentFromFraction(asFloat(item.BorrowApy))
			tvl := asFloat(item.TotalSupplyUsd)

			totalTvl += tvl
			reserves[symbol] = domain.Reserve{SupplyApy: supplyApy, BorrowApy: borrowApy, Tvl: domain.Float(tvl)}

			if domain.IsStable(symbol) && supplyApy > 0 {
				stableApys = append(stableApys, supplyApy)
			}
			if domain.IsSOLType(symbol) && supplyApy > 0 {
				solApys = append(solApys, supplyApy)
			}
		}

		out.Venues[venueName] = domain.Venue{
			Name:      venueName,
			StableApy: maxOf(stableApys),
			SolApy:    maxOf(solApys),
			Tvl:       domain.Float(totalTvl),
			Reserves:  reserves,
			Source:    "kamino-api",
		}
		out.Markets = append(out.Markets, domain.KaminoMarket{
			Name:        venueName,
			MarketName:  marketName,
			Pubkey:      mr.market.LendingMarket,
			IsPrimary:   mr.market.IsPrimary,
			IsCurated:   mr.market.IsCurated,
			Description: mr.market.Description,
			Tvl:         totalTvl,
		})
	}

	if len(out.Venues) == 0 {
		return nil, fmt.Errorf("kamino: no usable markets")
	}
	return out, nil
}

func (p *KaminoProvider) discoverMarkets(ctx context.Context) []kaminoMarketEntry {
	ctx, cancel := withTimeout(ctx, kaminoDiscoveryTimeout)
	defer cancel()

	var markets []kaminoMarketEntry
	err := getJSON(ctx, p.client, p.baseURL+"/v2/kamino-market", nil, &markets)
	if err != nil || len(markets) == 0 {
		fallback := make([]kaminoMarketEntry, 0, len(kaminoFallbackMarkets))
		for pk, name := range kaminoFallbackMarkets {
			fallback = append(fallback, kaminoMarketEntry{LendingMarket: pk, Name: name, IsPrimary: true})
		}
		return fallback
	}
	return markets
}

func (p *KaminoProvider) fetchMarketReserves(ctx context.Context, pubkey string) ([]kaminoReserve, error) {
	url := fmt.Sprintf("%s/kamino-market/%s/reserves/metrics", p.baseURL, pubkey)

	// The metrics endpoint has returned both a bare array and a wrapped
	// {reserves: [...]} object across versions.
	var raw json.RawMessage
	if err := getJSON(ctx, p.client, url, nil, &raw); err != nil {
		return nil, fmt.Errorf("kamino reserves %s: %w", pubkey, err)
	}

	var bare []kaminoReserve
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Reserves []kaminoReserve `json:"reserves"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("kamino reserves %s: unexpected shape: %w", pubkey, err)
	}
	return wrapped.Reserves, nil
}
