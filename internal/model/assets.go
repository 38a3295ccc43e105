package model

import "yield-harbor/internal/domain"

// AssetType buckets collateral assets by what drives their price.
type AssetType string

const (
	AssetStable AssetType = "stable"
	AssetSOL    AssetType = "sol"
	AssetBTC    AssetType = "btc"
	AssetRWA    AssetType = "rwa"
	AssetXStock AssetType = "xstock"
)

// Asset is one tradeable asset with its risk parameters. Price, earn APY and
// borrow rate start unset and are filled from live aggregate data.
type Asset struct {
	Symbol        string    `json:"symbol"`
	Type          AssetType `json:"type"`
	CanCollateral bool      `json:"canCollateral"`
	MaxLTV        float64   `json:"maxLTV,omitempty"`
	SafeLTV       float64   `json:"safeLTV,omitempty"`
	LiqThreshold  float64   `json:"liqThreshold,omitempty"`
	Price         *float64  `json:"price"`
	EarnApy       *float64  `json:"earnApy"`
	BorrowRate    *float64  `json:"borrowRate"`
}

// Assets is the static collateral table. LTV and liquidation parameters are
// protocol-conservative figures, not read from any upstream.
var Assets = []Asset{
	{Symbol: "SOL", Type: AssetSOL, CanCollateral: true, MaxLTV: 0.75, SafeLTV: 0.50, LiqThreshold: 0.80},
	{Symbol: "USDC", Type: AssetStable},
	{Symbol: "JitoSOL", Type: AssetSOL, CanCollateral: true, MaxLTV: 0.72, SafeLTV: 0.50, LiqThreshold: 0.78},
	{Symbol: "mSOL", Type: AssetSOL, CanCollateral: true, MaxLTV: 0.70, SafeLTV: 0.48, LiqThreshold: 0.76},
	{Symbol: "PYUSD", Type: AssetStable},
	{Symbol: "USDT", Type: AssetStable},
	{Symbol: "wBTC", Type: AssetBTC, CanCollateral: true, MaxLTV: 0.70, SafeLTV: 0.50, LiqThreshold: 0.75},
	{Symbol: "ONYC", Type: AssetRWA, CanCollateral: true, MaxLTV: 0.65, SafeLTV: 0.45, LiqThreshold: 0.70},
	{Symbol: "syrupUSDC", Type: AssetStable, CanCollateral: true, MaxLTV: 0.75, SafeLTV: 0.55, LiqThreshold: 0.80},
	{Symbol: "AAPLx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "TSLAx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "NVDAx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "SPYx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "QQQx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "MSTRx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "GOOGLx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "COINx", Type: AssetXStock, CanCollateral: true, MaxLTV: 0.50, SafeLTV: 0.35, LiqThreshold: 0.60},
	{Symbol: "USDY", Type: AssetRWA, CanCollateral: true, MaxLTV: 0.75, SafeLTV: 0.55, LiqThreshold: 0.80},
}

// EnrichAssets fills the static table from a live aggregate response.
// Stables without a live price default to $1; everything else stays unset.
func EnrichAssets(live *domain.AggregateResponse) []Asset {
	out := make([]Asset, len(Assets))
	copy(out, Assets)
	if live == nil {
		return out
	}
	for i := range out {
		if price, ok := live.Prices[out[i].Symbol]; ok {
			out[i].Price = domain.Float(price)
		} else if out[i].Type == AssetStable {
			out[i].Price = domain.Float(1)
		}
		if apy, ok := live.AssetEarnApys[out[i].Symbol]; ok {
			out[i].EarnApy = domain.Float(apy)
		}
		if rate, ok := live.BorrowRates[out[i].Symbol]; ok {
			out[i].BorrowRate = domain.Float(rate)
		}
	}
	return out
}

// FindAsset returns the asset with the given symbol, or false.
func FindAsset(assets []Asset, symbol string) (Asset, bool) {
	for _, a := range assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}
