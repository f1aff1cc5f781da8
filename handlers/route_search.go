package handlers

import (
	"context"
	"fmt"

	"railfinder/models"
)

// LookupError wraps a provider failure during a tier's lookup call. It aborts
// the remaining tiers and is surfaced to the caller untouched.
type LookupError struct {
	Tier models.RouteTier
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("train lookup failed at tier %q: %v", e.Tier.Label(), e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NextTier is the tier transition: stop at the first tier that produced
// trains, or after the last tier regardless of outcome.
func NextTier(tier models.RouteTier, trainCount int) (models.RouteTier, bool) {
	if trainCount > 0 || tier == models.TierJunctionToJunction {
		return tier, true
	}
	return tier + 1, false
}

// RouteSearch escalates through the route tiers: small→small first, then the
// origin swapped to its nearest junction, then both ends on junctions. Each
// tier issues exactly one lookup call.
type RouteSearch struct {
	Small    *StationIndex
	Junction *StationIndex
	Lookup   TrainLookup
}

func NewRouteSearch(small, junction *StationIndex, lookup TrainLookup) *RouteSearch {
	return &RouteSearch{Small: small, Junction: junction, Lookup: lookup}
}

// Search runs the tiered search. An empty result after the last tier is a
// valid no-route outcome carrying the junction-to-junction station pair; a
// provider error at any tier returns a LookupError immediately.
func (s *RouteSearch) Search(ctx context.Context, fromPoint, toPoint models.GeoPoint, date string) (*models.SearchResult, error) {
	from, ok := s.Small.Nearest(fromPoint)
	if !ok {
		return nil, ErrEmptyCatalog
	}
	to, ok := s.Small.Nearest(toPoint)
	if !ok {
		return nil, ErrEmptyCatalog
	}

	tier := models.TierSmallToSmall
	for {
		trains, err := s.Lookup.TrainsBetween(ctx, from.Station.Code, to.Station.Code, date)
		if err != nil {
			return nil, &LookupError{Tier: tier, Err: err}
		}

		next, done := NextTier(tier, len(trains))
		if done {
			return &models.SearchResult{
				Trains:      trains,
				Tier:        tier,
				FromStation: from,
				ToStation:   to,
			}, nil
		}

		tier = next
		switch tier {
		case models.TierJunctionToSmall:
			if from, ok = s.Junction.Nearest(fromPoint); !ok {
				return nil, ErrEmptyCatalog
			}
		case models.TierJunctionToJunction:
			if to, ok = s.Junction.Nearest(toPoint); !ok {
				return nil, ErrEmptyCatalog
			}
		}
	}
}
