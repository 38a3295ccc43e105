package aggregate

import "yield-harbor/internal/domain"

// The canonical venue borrow rates are read from. Other venues' borrow rates
// are never used for this, even when present.
const borrowRateVenue = "Kamino: Main Market"

// Symbols whose earn APY is found by scanning reserves rather than headline
// fields, with a noise floor on the rate.
var reserveScanSymbols = []string{"JitoSOL", "mSOL", "wBTC"}

const reserveScanMinApy = 0.01

// Last-resort values for assets without reliable feeds. Applied only when
// the corresponding live field is still unset after every merge.
var (
	defaultPrices = map[string]float64{
		"SOL":       150.0, // conversion fallback only, live feed normally wins
		"ONYC":      1.0,
		"syrupUSDC": 1.0,
		"xStocks":   10.0,
	}
	defaultEarnApys = map[string]float64{
		"ONYC":      12.0,
		"syrupUSDC": 8.5,
		"xStocks":   0,
	}
	defaultBorrowRates = map[string]float64{
		"ONYC":      5.0,
		"syrupUSDC": 4.0,
		"xStocks":   8.0,
	}
)

// ExtractBorrowRates reads borrow rates from the canonical Kamino main
// market, restricted to tracked collateral with strictly positive rates.
func ExtractBorrowRates(venues map[string]domain.Venue) map[string]float64 {
	rates := make(map[string]float64)
	main, ok := venues[borrowRateVenue]
	if !ok || main.Reserves == nil {
		return rates
	}
	for _, symbol := range domain.TrackedCollateral {
		if r, ok := main.Reserves[symbol]; ok && r.BorrowApy > 0 {
			rates[symbol] = r.BorrowApy
		}
	}
	return rates
}

// DeriveAssetEarnApys computes the best earn APY per tracked asset. Two
// passes are needed because not every venue reports a headline APY for
// every asset it supports: headline stable/sol rates first, then a reserve
// scan for the symbols only visible inside reserve maps.
func DeriveAssetEarnApys(venues map[string]domain.Venue) map[string]float64 {
	apys := make(map[string]float64)

	bestSol := 0.0
	for _, v := range venues {
		if v.StableApy != nil && *v.StableApy > 0 {
			for _, sym := range []string{"USDC", "USDT", "PYUSD"} {
				if *v.StableApy > apys[sym] {
					apys[sym] = *v.StableApy
				}
			}
		}
		if v.SolApy != nil && *v.SolApy > 0 {
			if *v.SolApy > apys["SOL"] {
				apys["SOL"] = *v.SolApy
			}
			if *v.SolApy > bestSol {
				bestSol = *v.SolApy
			}
		}
	}

	for _, v := range venues {
		for _, sym := range reserveScanSymbols {
			if r, ok := v.Reserves[sym]; ok && r.SupplyApy > reserveScanMinApy && r.SupplyApy > apys[sym] {
				apys[sym] = r.SupplyApy
			}
		}
	}

	// LSTs earn at least the best SOL rate somewhere.
	if bestSol > 0 {
		for _, sym := range []string{"JitoSOL", "mSOL"} {
			if apys[sym] < bestSol {
				apys[sym] = bestSol
			}
		}
	}

	return apys
}

// ConvertTokenTvls rewrites token-denominated venue TVLs into USD using the
// best available price. This must run after the price fetch, never inline in
// a fetcher, because the price source completes independently.
func ConvertTokenTvls(venues map[string]domain.Venue, prices map[string]float64) {
	for name, v := range venues {
		if v.TvlInToken == "" || v.Tvl == nil {
			continue
		}
		price, ok := prices[v.TvlInToken]
		if !ok {
			price, ok = defaultPrices[v.TvlInToken]
		}
		if !ok {
			// No price at all: drop the TVL rather than publish token units
			// as USD.
			v.Tvl = nil
			v.TvlInToken = ""
			venues[name] = v
			continue
		}
		v.Tvl = domain.Float(*v.Tvl * price)
		v.TvlInToken = ""
		venues[name] = v
	}
}

// ApplyDefaults backfills prices, earn APYs and borrow rates for assets
// without live feeds. Existing entries are never overwritten.
func ApplyDefaults(prices, earnApys, borrowRates map[string]float64) {
	for sym, price := range defaultPrices {
		if sym == "SOL" {
			continue // SOL is a conversion fallback, not a published default
		}
		if _, ok := prices[sym]; !ok {
			prices[sym] = price
		}
	}
	for sym, apy := range defaultEarnApys {
		if _, ok := earnApys[sym]; !ok {
			earnApys[sym] = apy
		}
	}
	for sym, rate := range defaultBorrowRates {
		if _, ok := borrowRates[sym]; !ok {
			borrowRates[sym] = rate
		}
	}
}

// sourceFlags maps a venue's Source tag to its flag name in the response.
var sourceFlags = map[string]string{
	"kamino-api":      "kamino",
	"save-api":        "save",
	"sanctum-api":     "sanctum",
	"jup-lend-api":    "jupiter",
	"drift-api":       "drift",
	"drift-vaults":    "driftVaults",
	"loopscale-api":   "loopscale",
	"exponent-scrape": "exponent",
	"defillama":       "defillama",
}

// RecomputeSources derives the per-source availability flags from a merged
// venue map, so cached responses report the same flags as fresh ones.
func RecomputeSources(venues map[string]domain.Venue, prices map[string]float64) map[string]bool {
	flags := make(map[string]bool, len(sourceFlags)+1)
	for _, name := range sourceFlags {
		flags[name] = false
	}
	for _, v := range venues {
		if name, ok := sourceFlags[v.Source]; ok {
			flags[name] = true
		}
	}
	flags["prices"] = len(prices) > 0
	return flags
}
