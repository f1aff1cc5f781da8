package handlers

import (
	"sort"

	"railfinder/models"
)

// Scoring weights. Fast average speed and daily service score up; long travel
// time and frequent halts score down.
const (
	speedWeight      = 2.0
	travelTimeWeight = 0.01
	haltWeight       = 5.0
	allDaysWeight    = 10.0
)

// BestScore computes the composite desirability score for one train. Missing
// numeric fields have already decoded to zero, so they simply drop out of the
// sum.
func BestScore(t models.TrainRecord) float64 {
	return t.AvgSpeedKmph*speedWeight -
		t.TravelTimeMinutes*travelTimeWeight -
		t.TotalHalts*haltWeight +
		t.RunningDays.AllDays*allDaysWeight
}

// RankTrains scores, sorts and ranks the raw provider records. The sort is
// stable, so trains with equal scores keep their provider order. Ranks are
// 1-based and contiguous.
func RankTrains(trains []models.TrainRecord) []models.RankedTrain {
	ranked := make([]models.RankedTrain, 0, len(trains))
	for _, t := range trains {
		ranked = append(ranked, models.RankedTrain{
			TrainName:         t.TrainName,
			TravelTimeMinutes: t.TravelTimeMinutes,
			AvgSpeedKmph:      t.AvgSpeedKmph,
			TotalHalts:        t.TotalHalts,
			DistanceKm:        t.DistanceKm,
			BestScore:         BestScore(t),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BestScore > ranked[j].BestScore
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
