package decode

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Every upstream encodes rates differently: decimal fractions (Kamino,
// Sanctum), percent strings (Save), basis points (Jupiter Lend),
// centi-basis-points (Loopscale), 1e18 fixed-point wads (Save prices and
// borrow amounts) and hex fixed-point (Drift on-chain state). These are the
// only places those conversions are allowed to happen; everything past the
// decoder speaks percent-per-year and USD.

// PercentFromFraction converts a decimal fraction (0.12) to percent (12).
func PercentFromFraction(f float64) float64 {
	return f * 100
}

// PercentFromBps converts basis points (390) to percent (3.9).
func PercentFromBps(bps float64) float64 {
	return bps / 100
}

// PercentFromCentiBps converts centi-basis-points (100000) to percent (10).
func PercentFromCentiBps(cbps float64) float64 {
	return cbps / 10000
}

// FromWad converts a 1e18 fixed-point string to a float64.
// Wads exceed float64's integer range, so the division is done in decimal.
func FromWad(wad string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(wad))
	if err != nil {
		return 0
	}
	return d.Shift(-18).InexactFloat64()
}

// TokensFromWad converts a borrowed-amount wad, which is scaled by 1e18 and
// by the token's decimals, to whole tokens.
func TokensFromWad(wad string, decimals int) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(wad))
	if err != nil {
		return 0
	}
	return d.Shift(int32(-18 - decimals)).InexactFloat64()
}

// FromHexScaled parses a hex integer string (with or without 0x) and
// descales it by 10^shift. Drift encodes cumulative interest with shift 10
// and oracle prices with shift 6.
func FromHexScaled(hex string, shift int32) float64 {
	hex = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X"))
	if hex == "" {
		return 0
	}
	n, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return 0
	}
	return decimal.NewFromBigInt(n, 0).Shift(-shift).InexactFloat64()
}

// Drift fixed-point shifts.
const (
	CumulativeInterestShift int32 = 10
	OraclePriceShift        int32 = 6
)
