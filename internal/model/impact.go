package model

import "yield-harbor/internal/domain"

// ComputeMarketImpact returns the dilution factor of deploying amount USD
// into a pool of tvl USD: amount / (tvl + amount). Zero or missing inputs
// yield zero impact rather than a division error.
func ComputeMarketImpact(amount float64, tvl *float64) float64 {
	if amount <= 0 || tvl == nil || *tvl <= 0 {
		return 0
	}
	return amount / (*tvl + amount)
}

// EffectiveApy compresses a base APY by the market impact of the deploy.
func EffectiveApy(baseApy, amount float64, tvl *float64) float64 {
	return baseApy * (1 - ComputeMarketImpact(amount, tvl))
}

// RelevantApy picks the venue APY that applies to the given asset: the
// per-reserve supply APY when the venue reports one, else the stable or SOL
// headline by asset type. With no asset, the better headline.
func RelevantApy(venue domain.Venue, asset *Asset) float64 {
	stable, sol := 0.0, 0.0
	if venue.StableApy != nil {
		stable = *venue.StableApy
	}
	if venue.SolApy != nil {
		sol = *venue.SolApy
	}
	if asset == nil {
		if sol > stable {
			return sol
		}
		return stable
	}
	if r, ok := venue.Reserves[asset.Symbol]; ok && r.SupplyApy > 0 {
		return r.SupplyApy
	}
	if asset.Type == AssetStable {
		return stable
	}
	return sol
}
