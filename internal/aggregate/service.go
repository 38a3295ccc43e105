package aggregate

import (
	"context"
	"log"
	"sync"
	"time"

	"yield-harbor/internal/domain"
	"yield-harbor/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// Fetcher interfaces, one per source, so the fan-out can be exercised with
// stubs. The concrete providers in internal/provider satisfy them.
type (
	kaminoFetcher interface {
		Fetch(ctx context.Context) (*provider.KaminoResult, error)
	}
	saveFetcher interface {
		Fetch(ctx context.Context) (*provider.SaveResult, error)
	}
	sanctumFetcher interface {
		Fetch(ctx context.Context) (*domain.Venue, error)
	}
	jupiterFetcher interface {
		Fetch(ctx context.Context) (*provider.JupiterResult, error)
	}
	driftIFFetcher interface {
		Fetch(ctx context.Context) (*provider.DriftIFResult, error)
	}
	driftVaultsFetcher interface {
		Fetch(ctx context.Context) (*provider.DriftVaultsResult, error)
	}
	loopscaleFetcher interface {
		Fetch(ctx context.Context) (*provider.LoopscaleResult, error)
	}
	exponentFetcher interface {
		Fetch(ctx context.Context) (*provider.ExponentResult, error)
	}
	defiLlamaFetcher interface {
		Fetch(ctx context.Context) (map[string]domain.Venue, error)
	}
	priceFetcher interface {
		Fetch(ctx context.Context) (map[string]float64, error)
	}
)

// Aggregator fans out to every protocol fetcher, merges their venues by
// priority and computes the derived fields of the response.
type Aggregator struct {
	kamino      kaminoFetcher
	save        saveFetcher
	sanctum     sanctumFetcher
	jupiter     jupiterFetcher
	driftIF     driftIFFetcher
	driftVaults driftVaultsFetcher
	loopscale   loopscaleFetcher
	exponent    exponentFetcher
	defillama   defiLlamaFetcher
	prices      priceFetcher
	tracer      trace.Tracer
}

// NewAggregator wires the real providers.
func NewAggregator(tracer trace.Tracer, jupiterAPIKey, solanaRPCURL string) *Aggregator {
	return &Aggregator{
		kamino:      provider.NewKaminoProvider(tracer),
		save:        provider.NewSaveProvider(tracer),
		sanctum:     provider.NewSanctumProvider(tracer),
		jupiter:     provider.NewJupiterLendProvider(tracer, jupiterAPIKey),
		driftIF:     provider.NewDriftIFProvider(tracer),
		driftVaults: provider.NewDriftVaultsProvider(tracer, solanaRPCURL),
		loopscale:   provider.NewLoopscaleProvider(tracer),
		exponent:    provider.NewExponentProvider(tracer),
		defillama:   provider.NewDefiLlamaProvider(tracer),
		prices:      provider.NewCoinGeckoProvider(tracer),
		tracer:      tracer,
	}
}

// Fetch runs every fetcher concurrently and assembles the aggregate
// response. One source's failure never affects the others; a total failure
// still yields a well-formed empty response.
func (a *Aggregator) Fetch(ctx context.Context) *domain.AggregateResponse {
	ctx, span := a.tracer.Start(ctx, "aggregate.fetch")
	defer span.End()

	start := time.Now()

	var (
		kaminoRes      *provider.KaminoResult
		saveRes        *provider.SaveResult
		sanctumRes     *domain.Venue
		jupiterRes     *provider.JupiterResult
		driftIFRes     *provider.DriftIFResult
		driftVaultsRes *provider.DriftVaultsResult
		loopscaleRes   *provider.LoopscaleResult
		exponentRes    *provider.ExponentResult
		llamaRes       map[string]domain.Venue
		priceRes       map[string]float64
	)

	var wg sync.WaitGroup
	run := func(source string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[aggregate] %s panicked: %v", source, r)
				}
			}()
			if err := fn(); err != nil {
				log.Printf("[aggregate] %s unavailable: %v", source, err)
			}
		}()
	}

	run("kamino", func() (err error) { kaminoRes, err = a.kamino.Fetch(ctx); return })
	run("save", func() (err error) { saveRes, err = a.save.Fetch(ctx); return })
	run("sanctum", func() (err error) { sanctumRes, err = a.sanctum.Fetch(ctx); return })
	run("jupiter", func() (err error) { jupiterRes, err = a.jupiter.Fetch(ctx); return })
	run("drift-if", func() (err error) { driftIFRes, err = a.driftIF.Fetch(ctx); return })
	run("drift-vaults", func() (err error) { driftVaultsRes, err = a.driftVaults.Fetch(ctx); return })
	run("loopscale", func() (err error) { loopscaleRes, err = a.loopscale.Fetch(ctx); return })
	run("exponent", func() (err error) { exponentRes, err = a.exponent.Fetch(ctx); return })
	run("defillama", func() (err error) { llamaRes, err = a.defillama.Fetch(ctx); return })
	run("prices", func() (err error) { priceRes, err = a.prices.Fetch(ctx); return })
	wg.Wait()

	// Fixed priority order, independent of completion order.
	layers := make([]Layer, 0, 9)
	layers = append(layers, Layer{Source: "defillama", Venues: llamaRes})
	if kaminoRes != nil {
		layers = append(layers, Layer{Source: "kamino", Venues: kaminoRes.Venues})
	}
	if saveRes != nil {
		layers = append(layers, Layer{Source: "save", Venues: saveRes.Venues})
	}
	if sanctumRes != nil {
		layers = append(layers, Layer{
			Source:   "sanctum",
			Venues:   map[string]domain.Venue{sanctumRes.Name: *sanctumRes},
			Strategy: FieldMerge,
		})
	}
	if jupiterRes != nil {
		layers = append(layers, Layer{Source: "jupiter", Venues: jupiterRes.Venues})
	}
	if driftIFRes != nil {
		layers = append(layers, Layer{Source: "drift-if", Venues: driftIFRes.Venues})
	}
	if driftVaultsRes != nil {
		layers = append(layers, Layer{Source: "drift-vaults", Venues: driftVaultsRes.Venues})
	}
	if loopscaleRes != nil {
		layers = append(layers, Layer{Source: "loopscale", Venues: loopscaleRes.Venues})
	}
	if exponentRes != nil {
		layers = append(layers, Layer{Source: "exponent", Venues: exponentRes.Venues})
	}

	venues := MergeVenues(layers)

	prices := make(map[string]float64)
	for sym, price := range priceRes {
		prices[sym] = price
	}

	ConvertTokenTvls(venues, prices)
	borrowRates := ExtractBorrowRates(venues)
	earnApys := DeriveAssetEarnApys(venues)
	ApplyDefaults(prices, earnApys, borrowRates)

	sources := RecomputeSources(venues, priceRes)

	resp := &domain.AggregateResponse{
		Venues:        venues,
		Prices:        prices,
		BorrowRates:   borrowRates,
		AssetEarnApys: earnApys,
		Sources:       sources,
		FetchedAt:     time.Now().UTC().Format(time.RFC3339),
		Elapsed:       time.Since(start).Milliseconds(),
	}
	if kaminoRes != nil {
		resp.KaminoMarkets = kaminoRes.Markets
	}
	if saveRes != nil {
		resp.SavePools = saveRes.Pools
	}
	if jupiterRes != nil {
		resp.JupiterPools = jupiterRes.Pools
	}
	if driftIFRes != nil {
		resp.DriftVaults = driftIFRes.Pools
	}
	if driftVaultsRes != nil {
		resp.DriftStrategyVaults = driftVaultsRes.Vaults
	}
	if loopscaleRes != nil {
		resp.LoopscaleMarkets = loopscaleRes.Pools
	}
	if exponentRes != nil {
		resp.ExponentMarkets = exponentRes.Markets
	}
	return resp
}
