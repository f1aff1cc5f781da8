package models

type Station struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NearestResult is a station together with its great-circle distance from the
// query point. DistanceKm is rounded to two decimals for display.
type NearestResult struct {
	Station    Station `json:"station"`
	DistanceKm float64 `json:"distance_km"`
}

// RouteTier identifies which origin/destination catalog pairing produced a
// result. Search escalates through the tiers in declaration order.
type RouteTier int

const (
	TierSmallToSmall RouteTier = iota
	TierJunctionToSmall
	TierJunctionToJunction
)

func (t RouteTier) Label() string {
	switch t {
	case TierSmallToSmall:
		return "Direct (Small → Small)"
	case TierJunctionToSmall:
		return "Via Junction (Junction → Small)"
	case TierJunctionToJunction:
		return "Via Junctions (Junction → Junction)"
	}
	return "Unknown"
}
