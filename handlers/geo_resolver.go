package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"railfinder/config"
	"railfinder/models"
)

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (models.GeoPoint, error)
}

var errNoMatch = errors.New("no geocoding match")

// NominatimClient calls a Nominatim-style /search endpoint.
type NominatimClient struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		BaseURL:    baseURL,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *NominatimClient) Geocode(ctx context.Context, place string) (models.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		c.BaseURL, url.QueryEscape(place))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.GeoPoint{}, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.GeoPoint{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeoPoint{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	// Nominatim encodes coordinates as strings
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.GeoPoint{}, err
	}
	if len(results) == 0 {
		return models.GeoPoint{}, errNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.GeoPoint{}, err
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.GeoPoint{}, err
	}

	return models.GeoPoint{Lat: lat, Lon: lon}, nil
}

// GeoResolver memoizes successful geocoding results and throttles provider
// calls to at most one per MinDelay, per the provider's usage policy. The
// cache is checked before the throttle, so hits never wait. Failures are not
// cached, which lets a later request retry the same place.
type GeoResolver struct {
	geocoder Geocoder
	cache    *cache.Cache
	minDelay time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

func NewGeoResolver(geocoder Geocoder, geoCache *cache.Cache, minDelay time.Duration) *GeoResolver {
	return &GeoResolver{
		geocoder: geocoder,
		cache:    geoCache,
		minDelay: minDelay,
	}
}

// Resolve returns the coordinates for place, or ok=false when the place could
// not be resolved. Provider errors never escape this layer.
func (r *GeoResolver) Resolve(ctx context.Context, place string) (models.GeoPoint, bool) {
	key := config.GetCacheKey("geo", place)
	if cached, found := r.cache.Get(key); found {
		return cached.(models.GeoPoint), true
	}

	if !r.waitTurn(ctx) {
		return models.GeoPoint{}, false
	}

	point, err := r.geocoder.Geocode(ctx, place)
	if err != nil {
		return models.GeoPoint{}, false
	}

	r.cache.Set(key, point, cache.NoExpiration)
	return point, true
}

// waitTurn blocks until the minimum gap since the previous provider call has
// elapsed, reserving the new call slot. Returns false if ctx is cancelled
// while waiting.
func (r *GeoResolver) waitTurn(ctx context.Context) bool {
	r.mu.Lock()
	now := time.Now()
	wait := r.minDelay - now.Sub(r.lastCall)
	if wait < 0 {
		wait = 0
	}
	r.lastCall = now.Add(wait)
	r.mu.Unlock()

	if wait == 0 {
		return true
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
