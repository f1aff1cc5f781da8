package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"railfinder/config"
	"railfinder/handlers"
	"railfinder/middleware"
	"railfinder/models"
)

func main() {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Config

	smallStations, junctionStations := loadCatalogs(cfg.Stations)
	defer config.CloseDB()
	log.Printf("Small stations: %d", len(smallStations))
	log.Printf("Junction stations: %d", len(junctionStations))

	// Both catalogs must be populated or the service cannot route anything.
	if len(smallStations) == 0 || len(junctionStations) == 0 {
		log.Fatalf("Station catalogs not loaded correctly: small=%d junction=%d",
			len(smallStations), len(junctionStations))
	}

	geoCache := config.NewGeoCache()
	geocoder := handlers.NewNominatimClient(
		cfg.Geocode.BaseURL,
		cfg.Geocode.UserAgent,
		time.Duration(cfg.Geocode.TimeoutSeconds)*time.Second,
	)
	resolver := handlers.NewGeoResolver(
		geocoder,
		geoCache,
		time.Duration(cfg.Geocode.MinDelayMS)*time.Millisecond,
	)
	lookup := handlers.NewRailRadarClient(
		cfg.RailRadar.BaseURL,
		cfg.RailRadar.APIKey,
		time.Duration(cfg.RailRadar.TimeoutSeconds)*time.Second,
	)
	routeSearch := handlers.NewRouteSearch(
		handlers.NewStationIndex(smallStations),
		handlers.NewStationIndex(junctionStations),
		lookup,
	)
	api := handlers.NewSearchAPI(resolver, routeSearch, geoCache)

	r := mux.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"Origin",
			"X-Request-ID",
		},
		MaxAge: 86400,
	})

	// Middleware order matters: recovery wraps everything downstream,
	// request IDs must exist before logging reads them.
	r.Use(middleware.CORSDebugMiddleware)
	r.Use(corsHandler.Handler)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(mux.MiddlewareFunc(ghandlers.CompressHandler))

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(apiRouter, api)
	log.Println("Routes registered successfully")

	srv := &http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		WriteTimeout:      90 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on port %d...", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
}

// loadCatalogs reads both station catalogs from the configured source. CSV is
// the default; STATION_SOURCE=postgres reads the same columns from a table.
func loadCatalogs(cfg config.StationsConfig) ([]models.Station, []models.Station) {
	if cfg.Source == "postgres" {
		if err := config.InitDBWithRetry(0); err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}

		small, err := handlers.LoadStationsDB(config.DB, cfg.Table, "small")
		if err != nil {
			log.Fatalf("Failed to load small stations from PostgreSQL: %v", err)
		}
		junction, err := handlers.LoadStationsDB(config.DB, cfg.Table, "junction")
		if err != nil {
			log.Fatalf("Failed to load junction stations from PostgreSQL: %v", err)
		}
		return small, junction
	}

	small, err := handlers.LoadStationsCSV(cfg.SmallCSV)
	if err != nil {
		log.Fatalf("Failed to load small stations from %s: %v", cfg.SmallCSV, err)
	}
	junction, err := handlers.LoadStationsCSV(cfg.JunctionCSV)
	if err != nil {
		log.Fatalf("Failed to load junction stations from %s: %v", cfg.JunctionCSV, err)
	}
	return small, junction
}

func registerRoutes(api *mux.Router, search *handlers.SearchAPI) {
	// Search routes
	api.HandleFunc("/search", search.HandleSearch).Methods("GET", "OPTIONS")

	// Station routes
	api.HandleFunc("/stations/nearest", search.HandleNearestStation).Methods("GET", "OPTIONS")

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
	api.HandleFunc("/health/detailed", search.HandleHealthDetailed).Methods("GET")
}
