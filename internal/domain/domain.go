package domain

// Reserve is one per-asset market inside a venue. Rates are always
// percent-per-year; every upstream unit conversion happens at decode time.
type Reserve struct {
	SupplyApy float64  `json:"supplyApy"`
	BorrowApy float64  `json:"borrowApy,omitempty"`
	Tvl       *float64 `json:"tvl,omitempty"`
}

// Venue is a named yield opportunity at a protocol. Identity is the Name
// string ("Kamino: Main Market", "Jupiter Lend: USDC", ...). Venues are
// rebuilt from scratch on every aggregation pass and never persisted.
type Venue struct {
	Name      string             `json:"-"`
	StableApy *float64           `json:"stableApy"`
	SolApy    *float64           `json:"solApy"`
	Tvl       *float64           `json:"tvl"`
	Reserves  map[string]Reserve `json:"reserves,omitempty"`
	Source    string             `json:"source"`

	// TvlInToken names the token the Tvl field is denominated in when the
	// upstream reports token units rather than USD. Cleared by the
	// post-merge USD conversion pass.
	TvlInToken string `json:"-"`

	// NoImpact marks fixed-rate and insurance-fund style venues where new
	// capital does not dilute the advertised rate.
	NoImpact bool `json:"noImpact,omitempty"`

	// VaultApy7d/30d carry the shorter trailing windows for strategy
	// vaults so the client can show them alongside the headline 90d rate.
	VaultApy7d  *float64 `json:"_apy7d,omitempty"`
	VaultApy30d *float64 `json:"_apy30d,omitempty"`
}

// HasData reports whether the venue carries at least one headline field,
// the inclusion invariant for the aggregate response.
func (v Venue) HasData() bool {
	return v.StableApy != nil || v.SolApy != nil || v.Tvl != nil
}

// KaminoMarket describes one dynamically discovered Kamino lending market.
type KaminoMarket struct {
	Name        string  `json:"name"`
	MarketName  string  `json:"marketName"`
	Pubkey      string  `json:"pubkey"`
	IsPrimary   bool    `json:"isPrimary"`
	IsCurated   bool    `json:"isCurated"`
	Description string  `json:"description"`
	Tvl         float64 `json:"tvl"`
}

// LendingPool describes one per-token sub-market of a protocol that exposes
// several pools (Save, Jupiter Lend, Drift insurance fund, Loopscale).
type LendingPool struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// StrategyVault describes one Drift strategy vault discovered on-chain.
type StrategyVault struct {
	Name      string `json:"name"`
	VaultName string `json:"vaultName"`
	Pubkey    string `json:"pubkey"`
	Token     string `json:"token"`
}

// ExponentMarket describes one Exponent fixed-yield market.
type ExponentMarket struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
}

// AggregateResponse is the full payload of the aggregation endpoint.
type AggregateResponse struct {
	Venues              map[string]Venue   `json:"venues"`
	KaminoMarkets       []KaminoMarket     `json:"kaminoMarkets"`
	JupiterPools        []LendingPool      `json:"jupiterPools"`
	SavePools           []LendingPool      `json:"savePools"`
	DriftVaults         []LendingPool      `json:"driftVaults"`
	DriftStrategyVaults []StrategyVault    `json:"driftStrategyVaults"`
	LoopscaleMarkets    []LendingPool      `json:"loopscaleMarkets"`
	ExponentMarkets     []ExponentMarket   `json:"exponentMarkets"`
	Prices              map[string]float64 `json:"prices"`
	BorrowRates         map[string]float64 `json:"borrowRates"`
	AssetEarnApys       map[string]float64 `json:"assetEarnApys"`
	Sources             map[string]bool    `json:"sources"`
	FetchedAt           string             `json:"fetchedAt"`
	Elapsed             int64              `json:"elapsed"`
}

// Float returns a pointer to v, for the nullable APY/TVL fields.
func Float(v float64) *float64 {
	return &v
}
