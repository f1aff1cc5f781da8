package models

// SearchResult carries the outcome of a tiered route search: the trains found
// at the first non-empty tier, or an empty list with the last attempted tier
// and station pair when every tier came back empty.
type SearchResult struct {
	Trains      []TrainRecord
	Tier        RouteTier
	FromStation NearestResult
	ToStation   NearestResult
}

func (r *SearchResult) Found() bool {
	return len(r.Trains) > 0
}
