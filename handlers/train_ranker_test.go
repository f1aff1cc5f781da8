package handlers

import (
	"math"
	"testing"

	"railfinder/models"
)

func TestBestScoreFormula(t *testing.T) {
	train := models.TrainRecord{
		TrainName:         "Exp1",
		AvgSpeedKmph:      80,
		TravelTimeMinutes: 120,
		TotalHalts:        2,
		RunningDays:       models.RunningDays{AllDays: 1},
	}
	// 80*2 - 120*0.01 - 2*5 + 1*10
	if got := BestScore(train); math.Abs(got-158.8) > 1e-9 {
		t.Errorf("BestScore = %v, want 158.8", got)
	}
}

func TestBestScoreZeroDefaults(t *testing.T) {
	// A record with every numeric missing scores exactly zero.
	if got := BestScore(models.TrainRecord{TrainName: "Ghost"}); got != 0 {
		t.Errorf("BestScore of empty record = %v, want 0", got)
	}
}

func TestBestScoreMonotonicInSpeed(t *testing.T) {
	base := models.TrainRecord{
		TravelTimeMinutes: 300,
		TotalHalts:        8,
		AvgSpeedKmph:      55,
	}
	faster := base
	faster.AvgSpeedKmph = 56

	if BestScore(faster) <= BestScore(base) {
		t.Errorf("faster train scored %v, not above %v", BestScore(faster), BestScore(base))
	}
}

func TestRankTrainsOrderAndRanks(t *testing.T) {
	trains := []models.TrainRecord{
		{TrainName: "Slow", AvgSpeedKmph: 40, TotalHalts: 10},
		{TrainName: "Fast", AvgSpeedKmph: 90, TotalHalts: 3},
		{TrainName: "Mid", AvgSpeedKmph: 60, TotalHalts: 5},
	}

	ranked := RankTrains(trains)

	wantOrder := []string{"Fast", "Mid", "Slow"}
	for i, name := range wantOrder {
		if ranked[i].TrainName != name {
			t.Errorf("position %d = %s, want %s", i, ranked[i].TrainName, name)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("rank at position %d = %d, want %d", i, ranked[i].Rank, i+1)
		}
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].BestScore > ranked[i-1].BestScore {
			t.Errorf("scores not descending at position %d", i)
		}
	}
}

func TestRankTrainsStableOnTies(t *testing.T) {
	trains := []models.TrainRecord{
		{TrainName: "First", AvgSpeedKmph: 50},
		{TrainName: "Second", AvgSpeedKmph: 50},
		{TrainName: "Third", AvgSpeedKmph: 50},
	}

	ranked := RankTrains(trains)
	for i, name := range []string{"First", "Second", "Third"} {
		if ranked[i].TrainName != name {
			t.Errorf("tied trains reordered: position %d = %s, want %s", i, ranked[i].TrainName, name)
		}
	}
}

func TestRankTrainsEmpty(t *testing.T) {
	if ranked := RankTrains(nil); len(ranked) != 0 {
		t.Errorf("RankTrains(nil) = %v, want empty", ranked)
	}
}

func TestRankTrainsProjectsDisplayFields(t *testing.T) {
	ranked := RankTrains([]models.TrainRecord{{
		TrainNumber:       "12002",
		TrainName:         "Shatabdi",
		TravelTimeMinutes: 200,
		AvgSpeedKmph:      95,
		TotalHalts:        4,
		DistanceKm:        312,
	}})

	got := ranked[0]
	if got.TrainName != "Shatabdi" || got.DistanceKm != 312 || got.TotalHalts != 4 {
		t.Errorf("projection lost fields: %+v", got)
	}
}
