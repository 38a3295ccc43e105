package aggregate

import "yield-harbor/internal/domain"

// MergeStrategy controls how a layer's venue interacts with a same-named
// venue already in the map.
type MergeStrategy int

const (
	// Replace overwrites the whole venue. Direct APIs always replace the
	// DeFiLlama fallback so stale aggregator data never shadows live data.
	Replace MergeStrategy = iota
	// FieldMerge fills only the fields the layer actually carries. Sanctum
	// needs this because its APY and TVL come from different sub-calls.
	FieldMerge
)

// Layer is one source's contribution to the merge, in priority order.
type Layer struct {
	Source   string
	Venues   map[string]domain.Venue
	Strategy MergeStrategy
}

// MergeVenues folds the layers into a single venue map. Order defines
// priority: later layers win for the same venue name. The fold is pure, so
// merge behavior is testable without running any fetcher.
func MergeVenues(layers []Layer) map[string]domain.Venue {
	merged := make(map[string]domain.Venue)
	for _, layer := range layers {
		for name, venue := range layer.Venues {
			venue.Name = name
			if !venue.HasData() && len(venue.Reserves) == 0 {
				continue
			}
			if layer.Strategy == FieldMerge {
				if existing, ok := merged[name]; ok {
					venue = mergeFields(existing, venue)
				}
			}
			merged[name] = venue
		}
	}
	return merged
}

// mergeFields lays incoming over base, keeping base values wherever the
// incoming venue has nothing to say.
func mergeFields(base, incoming domain.Venue) domain.Venue {
	out := base
	if incoming.StableApy != nil {
		out.StableApy = incoming.StableApy
	}
	if incoming.SolApy != nil {
		out.SolApy = incoming.SolApy
	}
	if incoming.Tvl != nil {
		out.Tvl = incoming.Tvl
		out.TvlInToken = incoming.TvlInToken
	}
	if len(incoming.Reserves) > 0 {
		reserves := make(map[string]domain.Reserve, len(base.Reserves)+len(incoming.Reserves))
		for sym, r := range base.Reserves {
			reserves[sym] = r
		}
		for sym, r := range incoming.Reserves {
			reserves[sym] = r
		}
		out.Reserves = reserves
	}
	if incoming.Source != "" {
		out.Source = incoming.Source
	}
	if incoming.NoImpact {
		out.NoImpact = true
	}
	return out
}
