package aggregate

import (
	"testing"

	"yield-harbor/internal/domain"
)

func TestMergeVenuesDirectBeatsFallback(t *testing.T) {
	fallback := map[string]domain.Venue{
		"Kamino: Main Market": {StableApy: domain.Float(3), Source: "defillama"},
	}
	direct := map[string]domain.Venue{
		"Kamino: Main Market": {StableApy: domain.Float(7), Source: "kamino-api"},
	}

	merged := MergeVenues([]Layer{
		{Source: "defillama", Venues: fallback},
		{Source: "kamino", Venues: direct},
	})

	venue := merged["Kamino: Main Market"]
	if venue.StableApy == nil || *venue.StableApy != 7 {
		t.Fatalf("direct source must win, got %v", venue.StableApy)
	}
	if venue.Source != "kamino-api" {
		t.Fatalf("expected kamino-api source, got %s", venue.Source)
	}
}

func TestMergeVenuesReplaceDropsStaleFields(t *testing.T) {
	fallback := map[string]domain.Venue{
		"Save (Solend)": {
			StableApy: domain.Float(4),
			Tvl:       domain.Float(999),
			Source:    "defillama",
		},
	}
	// Direct venue carries no TVL; replace semantics must not retain the
	// fallback's.
	direct := map[string]domain.Venue{
		"Save (Solend)": {StableApy: domain.Float(5), Source: "save-api"},
	}

	merged := MergeVenues([]Layer{
		{Source: "defillama", Venues: fallback},
		{Source: "save", Venues: direct},
	})

	venue := merged["Save (Solend)"]
	if venue.Tvl != nil {
		t.Fatalf("replace must drop the fallback tvl, got %v", *venue.Tvl)
	}
}

func TestMergeVenuesSanctumFieldMerge(t *testing.T) {
	fallback := map[string]domain.Venue{
		"Sanctum": {Tvl: domain.Float(1000000), Source: "defillama"},
	}
	sanctum := map[string]domain.Venue{
		"Sanctum": {SolApy: domain.Float(7.5), Source: "sanctum-api"},
	}

	merged := MergeVenues([]Layer{
		{Source: "defillama", Venues: fallback},
		{Source: "sanctum", Venues: sanctum, Strategy: FieldMerge},
	})

	venue := merged["Sanctum"]
	if venue.SolApy == nil || *venue.SolApy != 7.5 {
		t.Fatalf("expected merged solApy 7.5, got %v", venue.SolApy)
	}
	if venue.Tvl == nil || *venue.Tvl != 1000000 {
		t.Fatalf("field merge must keep the existing tvl, got %v", venue.Tvl)
	}
	if venue.Source != "sanctum-api" {
		t.Fatalf("expected sanctum-api source, got %s", venue.Source)
	}
}

func TestMergeVenuesSkipsEmptyVenues(t *testing.T) {
	merged := MergeVenues([]Layer{
		{Source: "kamino", Venues: map[string]domain.Venue{
			"Empty": {Source: "kamino-api"},
		}},
	})
	if len(merged) != 0 {
		t.Fatalf("venue without any data must be excluded, got %v", merged)
	}
}
