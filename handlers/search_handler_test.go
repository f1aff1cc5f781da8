package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"railfinder/config"
	"railfinder/models"
)

func newTestAPI(geocoder *stubGeocoder, lookup *stubLookup) *SearchAPI {
	small, junction := testIndexes()
	geoCache := config.NewGeoCache()
	resolver := NewGeoResolver(geocoder, geoCache, 0)
	search := NewRouteSearch(small, junction, lookup)
	return NewSearchAPI(resolver, search, geoCache)
}

func TestHandleSearchBlankInput(t *testing.T) {
	geocoder := &stubGeocoder{}
	lookup := &stubLookup{}
	api := newTestAPI(geocoder, lookup)

	req := httptest.NewRequest("GET", "/api/v1/search?from_place=Bhopal&to_place=&date=2026-09-01", nil)
	rec := httptest.NewRecorder()
	api.HandleSearch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if geocoder.calls != 0 {
		t.Errorf("geocoder called %d times before validation, want 0", geocoder.calls)
	}
	if len(lookup.calls) != 0 {
		t.Errorf("lookup called %d times, want 0", len(lookup.calls))
	}
}

func TestHandleSearchPlaceNotFound(t *testing.T) {
	geocoder := &stubGeocoder{points: map[string]models.GeoPoint{
		"Origin": {Lat: 0.01, Lon: 0.01},
		// "Dest" is unknown to the geocoder
	}}
	lookup := &stubLookup{}
	api := newTestAPI(geocoder, lookup)

	req := httptest.NewRequest("GET", "/api/v1/search?from_place=Origin&to_place=Dest&date=2026-09-01", nil)
	rec := httptest.NewRecorder()
	api.HandleSearch(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if len(lookup.calls) != 0 {
		t.Errorf("lookup called %d times after geocode failure, want 0", len(lookup.calls))
	}
}

func TestHandleSearchJunctionFallback(t *testing.T) {
	geocoder := &stubGeocoder{points: map[string]models.GeoPoint{
		"Origin": {Lat: 0.01, Lon: 0.01},
		"Dest":   {Lat: 0.02, Lon: 0.02},
	}}
	lookup := &stubLookup{results: map[string][]models.TrainRecord{
		"J-A": {{
			TrainName:         "Exp1",
			AvgSpeedKmph:      80,
			TravelTimeMinutes: 120,
			TotalHalts:        2,
			DistanceKm:        150,
			RunningDays:       models.RunningDays{AllDays: 1},
		}},
	}}
	api := newTestAPI(geocoder, lookup)

	req := httptest.NewRequest("GET", "/api/v1/search?from_place=Origin&to_place=Dest&date=2026-09-01", nil)
	rec := httptest.NewRecorder()
	api.HandleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		RouteMode string               `json:"route_mode"`
		Total     int                  `json:"total"`
		Trains    []models.RankedTrain `json:"trains"`
		From      models.NearestResult `json:"from_station"`
		To        models.NearestResult `json:"to_station"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if body.RouteMode != models.TierJunctionToSmall.Label() {
		t.Errorf("route_mode = %q, want %q", body.RouteMode, models.TierJunctionToSmall.Label())
	}
	if body.Total != 1 || len(body.Trains) != 1 {
		t.Fatalf("total = %d, trains = %d, want 1 each", body.Total, len(body.Trains))
	}
	if body.Trains[0].Rank != 1 || body.Trains[0].TrainName != "Exp1" {
		t.Errorf("first train = %+v", body.Trains[0])
	}
	if body.From.Station.Code != "J" || body.To.Station.Code != "A" {
		t.Errorf("station pair = %s-%s, want J-A", body.From.Station.Code, body.To.Station.Code)
	}
}

func TestHandleSearchNoRouteFound(t *testing.T) {
	geocoder := &stubGeocoder{points: map[string]models.GeoPoint{
		"Origin": {Lat: 0.01, Lon: 0.01},
		"Dest":   {Lat: 0.02, Lon: 0.02},
	}}
	lookup := &stubLookup{}
	api := newTestAPI(geocoder, lookup)

	req := httptest.NewRequest("GET", "/api/v1/search?from_place=Origin&to_place=Dest&date=2026-09-01", nil)
	rec := httptest.NewRecorder()
	api.HandleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no route is not an error)", rec.Code)
	}

	var body struct {
		RouteMode string               `json:"route_mode"`
		Total     int                  `json:"total"`
		From      models.NearestResult `json:"from_station"`
		To        models.NearestResult `json:"to_station"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Total != 0 {
		t.Errorf("total = %d, want 0", body.Total)
	}
	if body.RouteMode != models.TierJunctionToJunction.Label() {
		t.Errorf("route_mode = %q, want %q", body.RouteMode, models.TierJunctionToJunction.Label())
	}
	if body.From.Station.Code != "J" || body.To.Station.Code != "J" {
		t.Errorf("station pair = %s-%s, want J-J", body.From.Station.Code, body.To.Station.Code)
	}
}

func TestHandleSearchLookupFailure(t *testing.T) {
	geocoder := &stubGeocoder{points: map[string]models.GeoPoint{
		"Origin": {Lat: 0.01, Lon: 0.01},
		"Dest":   {Lat: 0.02, Lon: 0.02},
	}}
	lookup := &stubLookup{failOn: "A-A"}
	api := newTestAPI(geocoder, lookup)

	req := httptest.NewRequest("GET", "/api/v1/search?from_place=Origin&to_place=Dest&date=2026-09-01", nil)
	rec := httptest.NewRecorder()
	api.HandleSearch(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestHandleNearestStation(t *testing.T) {
	api := newTestAPI(&stubGeocoder{}, &stubLookup{})

	req := httptest.NewRequest("GET", "/api/v1/stations/nearest?lat=0.5&lon=0.5&catalog=junction", nil)
	rec := httptest.NewRecorder()
	api.HandleNearestStation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Catalog string               `json:"catalog"`
		Nearest models.NearestResult `json:"nearest"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Catalog != "junction" || body.Nearest.Station.Code != "J" {
		t.Errorf("body = %+v, want junction catalog station J", body)
	}
}

func TestHandleNearestStationBadParams(t *testing.T) {
	api := newTestAPI(&stubGeocoder{}, &stubLookup{})

	req := httptest.NewRequest("GET", "/api/v1/stations/nearest?lat=abc&lon=0.5", nil)
	rec := httptest.NewRecorder()
	api.HandleNearestStation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
