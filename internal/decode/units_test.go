package decode

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"kamino fraction", PercentFromFraction(0.12), 12},
		{"sanctum fraction", PercentFromFraction(0.0843), 8.43},
		{"jupiter bps", PercentFromBps(390), 3.9},
		{"jupiter bps small", PercentFromBps(350), 3.5},
		{"loopscale cbps", PercentFromCentiBps(100000), 10},
		{"loopscale cbps fine", PercentFromCentiBps(134000), 13.4},
	}
	for _, tc := range tests {
		if !almostEqual(tc.got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestFromWad(t *testing.T) {
	if got := FromWad("123000000000000000000"); !almostEqual(got, 123) {
		t.Fatalf("wad price: got %v, want 123", got)
	}
	if got := FromWad("1500000000000000000"); !almostEqual(got, 1.5) {
		t.Fatalf("wad fraction: got %v, want 1.5", got)
	}
	if got := FromWad("garbage"); got != 0 {
		t.Fatalf("bad wad should decode to 0, got %v", got)
	}
}

func TestTokensFromWad(t *testing.T) {
	// 5 tokens with 6 decimals: 5 * 1e18 * 1e6
	if got := TokensFromWad("5000000000000000000000000", 6); !almostEqual(got, 5) {
		t.Fatalf("borrowed wads: got %v, want 5", got)
	}
	if got := TokensFromWad("", 6); got != 0 {
		t.Fatalf("empty wad should decode to 0, got %v", got)
	}
}

func TestFromHexScaled(t *testing.T) {
	// 1e10 in hex is 0x2540be400: cumulative interest of exactly 1.0
	if got := FromHexScaled("0x2540be400", CumulativeInterestShift); !almostEqual(got, 1) {
		t.Fatalf("cumulative interest: got %v, want 1", got)
	}
	// 150 * 1e6 = 0x8f0d180: a $150 oracle print
	if got := FromHexScaled("8f0d180", OraclePriceShift); !almostEqual(got, 150) {
		t.Fatalf("oracle price: got %v, want 150", got)
	}
	if got := FromHexScaled("not-hex", OraclePriceShift); got != 0 {
		t.Fatalf("bad hex should decode to 0, got %v", got)
	}
}
