package models

// TrainRecord is one train as returned by the trains-between provider. The
// provider sends more fields than these; unknown fields are ignored and
// missing or null numerics decode to zero.
type TrainRecord struct {
	TrainNumber       string      `json:"trainNumber"`
	TrainName         string      `json:"trainName"`
	TravelTimeMinutes float64     `json:"travelTimeMinutes"`
	AvgSpeedKmph      float64     `json:"avgSpeedKmph"`
	TotalHalts        float64     `json:"totalHalts"`
	DistanceKm        float64     `json:"distanceKm"`
	RunningDays       RunningDays `json:"runningDays"`
}

type RunningDays struct {
	AllDays float64 `json:"allDays"`
}

// RankedTrain projects the display fields of a scored train. Rank is the
// 1-based position after sorting by BestScore descending.
type RankedTrain struct {
	Rank              int     `json:"rank"`
	TrainName         string  `json:"trainName"`
	TravelTimeMinutes float64 `json:"travelTimeMinutes"`
	AvgSpeedKmph      float64 `json:"avgSpeedKmph"`
	TotalHalts        float64 `json:"totalHalts"`
	DistanceKm        float64 `json:"distanceKm"`
	BestScore         float64 `json:"bestScore"`
}
