package domain

import "strings"

// KnownMints maps Solana token mints to display symbols for the reserves
// decoded out of Kamino, Save and Loopscale payloads.
var KnownMints = map[string]string{
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": "USDC",
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": "USDT",
	"So11111111111111111111111111111111111111112":  "SOL",
	"J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn": "JitoSOL",
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  "mSOL",
	"2b1kV6DkPAnxd5ixfnxCpjxmKwqjjaYmCZfHsFu24GXo": "PYUSD",
	"3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh": "wBTC",
	"27G8MtK7VtTcCHkpASjSDdkWWYfoqT6ggEuKidVJidD4": "JLP",
	"jupSoLaHXQiZZTSfEWMTRRgpnyFm8f6sZdosWBjx93v":  "jupSOL",
	"he1iusmfkpAdwvxLNGV8Y1iSbj4rUy6yMhEA3fotn9A":  "hSOL",
	"bSo13r4TkiE4KumL71LsHTPpL2euBYLFx6h9HP3piy1":  "bSOL",
	"7dHbWXmci3dT8UFYWYZweBLXgycu7Y3iL6trKn1Y7ARj": "stSOL",
	"LSTxxxnJzKDFSLr4dUkPcmCf5VyryEqzPLz5j4bpxFp":  "LST",
	"inf5RhGWmyg9mnJGp4ybHW1k1ioESJsxfBx1CNWVYfD":  "INF",
}

// CoinGeckoIDToSymbol maps CoinGecko coin ids to our symbols.
var CoinGeckoIDToSymbol = map[string]string{
	"solana":          "SOL",
	"usd-coin":        "USDC",
	"jito-staked-sol": "JitoSOL",
	"msol":            "mSOL",
	"paypal-usd":      "PYUSD",
	"tether":          "USDT",
	"bitcoin":         "wBTC",
}

// DefiLlamaProjects maps DeFiLlama project slugs to venue names, only for
// protocols without a direct integration.
var DefiLlamaProjects = map[string]string{
	"marginfi":        "MarginFi",
	"marginfi-lst":    "MarginFi",
	"exponent":        "Exponent",
	"ratex":           "RateX",
	"solstice":        "Solstice",
	"perena":          "Perena",
	"onre":            "OnRe",
	"hylo-lsts":       "Hylo",
	"hylo":            "Hylo",
	"carrot-liquidity": "DeFi Carrot",
	"defi-carrot":      "DeFi Carrot",
	"neutral-trade":    "Neutral Trade",
	"lulo":             "Lulo",
}

// TrackedCollateral is the fixed allow-list of symbols the carry simulator
// can borrow or post as collateral. Borrow rates are extracted only for
// these symbols.
var TrackedCollateral = []string{
	"SOL", "USDC", "JitoSOL", "mSOL", "PYUSD", "USDT", "wBTC",
	"ONYC", "syrupUSDC", "xStocks",
}

var stableMarkers = []string{"USDC", "USDT", "PYUSD", "USX", "USD*", "USDe"}

var solMarkers = []string{
	"SOL", "JitoSOL", "mSOL", "bSOL", "stSOL", "hSOL", "jupSOL",
	"INF", "LST", "dSOL",
}

// IsStable reports whether the symbol names a stablecoin market.
func IsStable(symbol string) bool {
	for _, m := range stableMarkers {
		if strings.Contains(symbol, m) {
			return true
		}
	}
	return false
}

// IsSOLType reports whether the symbol names SOL or a liquid staking token.
func IsSOLType(symbol string) bool {
	for _, m := range solMarkers {
		if strings.Contains(symbol, m) {
			return true
		}
	}
	return false
}
