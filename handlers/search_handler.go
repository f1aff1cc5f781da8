package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"

	"railfinder/config"
	"railfinder/models"
)

const searchTimeout = 60 * time.Second

var validate = validator.New()

// SearchAPI bundles the search pipeline dependencies behind the HTTP surface.
type SearchAPI struct {
	Resolver *GeoResolver
	Search   *RouteSearch
	GeoCache *cache.Cache
}

func NewSearchAPI(resolver *GeoResolver, search *RouteSearch, geoCache *cache.Cache) *SearchAPI {
	return &SearchAPI{
		Resolver: resolver,
		Search:   search,
		GeoCache: geoCache,
	}
}

type searchRequest struct {
	FromPlace string `validate:"required"`
	ToPlace   string `validate:"required"`
	Date      string `validate:"required"`
}

// HandleSearch resolves both place names, runs the tiered route search and
// returns the ranked trains. Blank parameters are rejected before any
// external call is made.
func (api *SearchAPI) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := searchRequest{
		FromPlace: strings.TrimSpace(q.Get("from_place")),
		ToPlace:   strings.TrimSpace(q.Get("to_place")),
		Date:      strings.TrimSpace(q.Get("date")),
	}

	if err := validate.Struct(req); err != nil {
		sendErrorResponse(w, "Invalid input: from_place, to_place and date are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), searchTimeout)
	defer cancel()

	// The two geocode calls are independent; run them concurrently.
	var (
		wg                 sync.WaitGroup
		fromPoint, toPoint models.GeoPoint
		fromOK, toOK       bool
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fromPoint, fromOK = api.Resolver.Resolve(ctx, req.FromPlace)
	}()
	go func() {
		defer wg.Done()
		toPoint, toOK = api.Resolver.Resolve(ctx, req.ToPlace)
	}()
	wg.Wait()

	if !fromOK || !toOK {
		sendErrorResponse(w, "Place not found", http.StatusNotFound)
		return
	}

	result, err := api.Search.Search(ctx, fromPoint, toPoint, req.Date)
	if err != nil {
		sendErrorResponse(w, "Train lookup failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	ranked := RankTrains(result.Trains)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"from_station": result.FromStation,
		"to_station":   result.ToStation,
		"route_mode":   result.Tier.Label(),
		"total":        len(ranked),
		"trains":       ranked,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

// HandleNearestStation returns the station nearest to a coordinate in the
// requested catalog.
func (api *SearchAPI) HandleNearestStation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		sendErrorResponse(w, "Query parameters 'lat' and 'lon' must be numeric", http.StatusBadRequest)
		return
	}

	idx := api.Search.Small
	catalog := strings.ToLower(q.Get("catalog"))
	switch catalog {
	case "", "general":
		catalog = "general"
	case "junction":
		idx = api.Search.Junction
	default:
		sendErrorResponse(w, "Catalog must be 'general' or 'junction'", http.StatusBadRequest)
		return
	}

	result, ok := idx.Nearest(models.GeoPoint{Lat: lat, Lon: lon})
	if !ok {
		sendErrorResponse(w, "Station catalog is empty", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"catalog": catalog,
		"nearest": result,
	})
}

// HandleHealthDetailed reports catalog sizes, cache usage and database
// connectivity when a database is configured.
func (api *SearchAPI) HandleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":            "ok",
		"small_stations":    api.Search.Small.Len(),
		"junction_stations": api.Search.Junction.Len(),
		"geo_cache_entries": api.GeoCache.ItemCount(),
	}

	if config.DB != nil {
		if err := config.DB.Ping(); err != nil {
			response["status"] = "degraded"
			response["db_status"] = "connection_error"
		} else {
			response["db_status"] = "connected"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func sendErrorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
		"code":  status,
	})
}
