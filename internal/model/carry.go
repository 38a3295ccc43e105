package model

import (
	"sort"

	"yield-harbor/internal/domain"
)

// Health factor reported when there is no borrow at all. A guard against
// division by zero, not an error state.
const healthFactorSentinel = 999.0

// BorrowMarket is the venue and reserve a borrow would be taken from.
type BorrowMarket struct {
	VenueName string         `json:"venueName"`
	Venue     domain.Venue   `json:"-"`
	Reserve   domain.Reserve `json:"reserve"`
}

// FindBestBorrowMarket returns the cheapest market to borrow the symbol
// from: the reserve with the lowest strictly positive borrow APY. Ties keep
// the first minimum found. Returns false when no venue lends the symbol.
func FindBestBorrowMarket(symbol string, venues map[string]domain.Venue) (BorrowMarket, bool) {
	var best BorrowMarket
	found := false
	for _, name := range sortedVenueNames(venues) {
		v := venues[name]
		r, ok := v.Reserves[symbol]
		if !ok || r.BorrowApy <= 0 {
			continue
		}
		if !found || r.BorrowApy < best.Reserve.BorrowApy {
			best = BorrowMarket{VenueName: name, Venue: v, Reserve: r}
			found = true
		}
	}
	return best, found
}

// StructuredPosition is the full carry-trade breakdown: collateral posted,
// stables borrowed against it at some LTV, proceeds deployed into a venue.
type StructuredPosition struct {
	CollateralUSD      float64 `json:"colUSD"`
	CollateralYieldApy float64 `json:"colYieldApy"`
	CollateralYieldUSD float64 `json:"colYieldUSD"`
	ActualLTV          float64 `json:"actualLTV"`
	BorrowUSD          float64 `json:"borrowUSD"`
	BorrowApy          float64 `json:"borrowApy"`
	BaseDeployApy      float64 `json:"baseDeployApy"`
	EffectiveDeployApy float64 `json:"effectiveDeployApy"`
	SupplyImpactPct    float64 `json:"supplyImpactPct"`
	BorrowCostUSD      float64 `json:"borrowCostUSD"`
	DeployYieldUSD     float64 `json:"deployYieldUSD"`
	GrossCarry         float64 `json:"grossCarry"`
	NetCarryUSD        float64 `json:"netCarryUSD"`
	TotalNetUSD        float64 `json:"totalNetUSD"`
	LiquidationPrice   float64 `json:"liqPrice"`
	LiquidationDropPct float64 `json:"liqDrop"`
	HealthFactor       float64 `json:"healthFactor"`
}

// PositionInput describes the position to evaluate. BorrowMarket may be nil,
// in which case the collateral's standalone borrow rate is used.
type PositionInput struct {
	Collateral   Asset
	Amount       float64
	BorrowAsset  *Asset
	BorrowMarket *BorrowMarket
	DeployVenue  domain.Venue
	LtvPct       float64
}

// ComputeStructuredPosition evaluates a carry trade. Collateral can earn
// yield inside the borrow venue while borrowed against; the deploy APY is
// impact-compressed unless the venue is fixed-rate.
func ComputeStructuredPosition(in PositionInput) StructuredPosition {
	price := 0.0
	if in.Collateral.Price != nil {
		price = *in.Collateral.Price
	}
	colUSD := in.Amount * price

	// Collateral yield comes from the borrow venue's own reserve when it has
	// one, because that is where the collateral actually sits.
	colYieldApy := 0.0
	if in.BorrowMarket != nil {
		if r, ok := in.BorrowMarket.Venue.Reserves[in.Collateral.Symbol]; ok && r.SupplyApy > 0 {
			colYieldApy = r.SupplyApy
		}
	}
	if colYieldApy == 0 && in.Collateral.EarnApy != nil {
		colYieldApy = *in.Collateral.EarnApy
	}
	colYieldUSD := colUSD * colYieldApy / 100

	actualLTV := in.LtvPct / 100
	borrowUSD := colUSD * actualLTV

	borrowApy := 0.0
	if in.BorrowMarket != nil {
		borrowApy = in.BorrowMarket.Reserve.BorrowApy
	} else if in.Collateral.BorrowRate != nil {
		borrowApy = *in.Collateral.BorrowRate
	}

	baseDeployApy := RelevantApy(in.DeployVenue, in.BorrowAsset)
	impact := 0.0
	if !in.DeployVenue.NoImpact {
		impact = ComputeMarketImpact(borrowUSD, in.DeployVenue.Tvl)
	}
	effectiveDeployApy := baseDeployApy * (1 - impact)

	borrowCostUSD := borrowUSD * borrowApy / 100
	deployYieldUSD := borrowUSD * effectiveDeployApy / 100
	netCarryUSD := deployYieldUSD - borrowCostUSD
	totalNetUSD := netCarryUSD + colYieldUSD

	liqThreshold := in.Collateral.LiqThreshold
	if liqThreshold == 0 {
		liqThreshold = 1
	}

	liqPrice := 0.0
	liqDrop := 0.0
	hf := healthFactorSentinel
	if borrowUSD > 0 {
		if in.Amount > 0 {
			liqPrice = borrowUSD / (liqThreshold * in.Amount)
		}
		if liqPrice > 0 && price > 0 {
			liqDrop = (price - liqPrice) / price * 100
		}
		hf = colUSD * liqThreshold / borrowUSD
	}

	return StructuredPosition{
		CollateralUSD:      colUSD,
		CollateralYieldApy: colYieldApy,
		CollateralYieldUSD: colYieldUSD,
		ActualLTV:          actualLTV,
		BorrowUSD:          borrowUSD,
		BorrowApy:          borrowApy,
		BaseDeployApy:      baseDeployApy,
		EffectiveDeployApy: effectiveDeployApy,
		SupplyImpactPct:    impact * 100,
		BorrowCostUSD:      borrowCostUSD,
		DeployYieldUSD:     deployYieldUSD,
		GrossCarry:         effectiveDeployApy - borrowApy,
		NetCarryUSD:        netCarryUSD,
		TotalNetUSD:        totalNetUSD,
		LiquidationPrice:   liqPrice,
		LiquidationDropPct: liqDrop,
		HealthFactor:       hf,
	}
}

func sortedVenueNames(venues map[string]domain.Venue) []string {
	names := make([]string, 0, len(venues))
	for name := range venues {
		names = append(names, name)
	}
	// Deterministic iteration so "first minimum" means the same thing on
	// every call.
	sort.Strings(names)
	return names
}
