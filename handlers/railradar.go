package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"railfinder/models"
)

// TrainLookup fetches the trains running between two station codes on a date.
type TrainLookup interface {
	TrainsBetween(ctx context.Context, fromCode, toCode, date string) ([]models.TrainRecord, error)
}

// RailRadarClient calls the RailRadar trains-between API, authenticated with
// an X-API-Key header.
type RailRadarClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewRailRadarClient(baseURL, apiKey string, timeout time.Duration) *RailRadarClient {
	return &RailRadarClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// trainsResponse accepts both response shapes the API has been observed to
// return: the train list at top level, or nested under "data".
type trainsResponse struct {
	Trains []models.TrainRecord `json:"trains"`
	Data   struct {
		Trains []models.TrainRecord `json:"trains"`
	} `json:"data"`
}

func (r *trainsResponse) normalize() []models.TrainRecord {
	if len(r.Trains) > 0 {
		return r.Trains
	}
	return r.Data.Trains
}

func (c *RailRadarClient) TrainsBetween(ctx context.Context, fromCode, toCode, date string) ([]models.TrainRecord, error) {
	params := url.Values{}
	params.Set("from", fromCode)
	params.Set("to", toCode)
	params.Set("date", date)

	endpoint := fmt.Sprintf("%s/api/v1/trains/between?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("trains-between returned status %d: %s", resp.StatusCode, body)
	}

	var decoded trainsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding trains-between response: %v", err)
	}

	return decoded.normalize(), nil
}
