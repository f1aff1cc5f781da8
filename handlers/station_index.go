package handlers

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"railfinder/models"
	"railfinder/utils"
)

var ErrEmptyCatalog = errors.New("station catalog is empty")

// StationIndex answers nearest-station queries over one immutable catalog.
// Catalogs are small (hundreds to low thousands of rows), so a linear
// haversine scan is enough; the first station seen at the minimum distance
// wins, which keeps results reproducible for identical catalogs.
type StationIndex struct {
	stations []models.Station
}

func NewStationIndex(stations []models.Station) *StationIndex {
	return &StationIndex{stations: stations}
}

func (idx *StationIndex) Len() int {
	return len(idx.stations)
}

// Nearest returns the catalog station closest to point. The comparison runs
// at full precision; only the returned distance is rounded.
func (idx *StationIndex) Nearest(point models.GeoPoint) (models.NearestResult, bool) {
	if len(idx.stations) == 0 {
		return models.NearestResult{}, false
	}

	var nearest models.Station
	minDist := -1.0

	for _, s := range idx.stations {
		dist := utils.CalculateDistance(point.Lat, point.Lon, s.Lat, s.Lon)
		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = s
		}
	}

	return models.NearestResult{
		Station:    nearest,
		DistanceKm: utils.RoundKm(minDist),
	}, true
}

// LoadStationsCSV reads a station catalog from a CSV file with columns
// code, name (or Station), latitude and longitude. Header matching is
// case-insensitive and a UTF-8 BOM is tolerated. Rows with a missing code or
// non-numeric coordinates are skipped rather than aborting the load.
func LoadStationsCSV(path string) ([]models.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseStationsCSV(f)
}

func parseStationsCSV(r io.Reader) ([]models.Station, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %v", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		cols[h] = i
	}

	codeIdx, ok := cols["code"]
	if !ok {
		return nil, errors.New("CSV is missing a code column")
	}
	nameIdx, ok := cols["name"]
	if !ok {
		// Some exports label the station-name column "Station"
		if nameIdx, ok = cols["station"]; !ok {
			return nil, errors.New("CSV is missing a station name column")
		}
	}
	latIdx, ok := cols["latitude"]
	if !ok {
		return nil, errors.New("CSV is missing a latitude column")
	}
	lonIdx, ok := cols["longitude"]
	if !ok {
		return nil, errors.New("CSV is missing a longitude column")
	}

	var stations []models.Station
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		maxIdx := codeIdx
		for _, i := range []int{nameIdx, latIdx, lonIdx} {
			if i > maxIdx {
				maxIdx = i
			}
		}
		if len(row) <= maxIdx {
			continue
		}

		code := strings.TrimSpace(row[codeIdx])
		if code == "" {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[latIdx]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[lonIdx]), 64)
		if err != nil {
			continue
		}

		stations = append(stations, models.Station{
			Code: code,
			Name: strings.TrimSpace(row[nameIdx]),
			Lat:  lat,
			Lon:  lon,
		})
	}

	return stations, nil
}

// LoadStationsDB reads a station catalog from a Postgres table, filtered by
// catalog kind ("small" or "junction").
func LoadStationsDB(db *sql.DB, table, kind string) ([]models.Station, error) {
	query := fmt.Sprintf(
		"SELECT code, name, latitude, longitude FROM %s WHERE kind = $1 ORDER BY id", table)

	rows, err := db.Query(query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.Code, &s.Name, &s.Lat, &s.Lon); err != nil {
			continue
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}
