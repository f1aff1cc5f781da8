package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

type GeocodeConfig struct {
	BaseURL        string `yaml:"baseURL" validate:"omitempty,url"`
	UserAgent      string `yaml:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" validate:"gte=0"`
	MinDelayMS     int    `yaml:"minDelayMS" validate:"gte=0"`
}

type RailRadarConfig struct {
	BaseURL        string `yaml:"baseURL" validate:"omitempty,url"`
	APIKey         string `yaml:"apiKey"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" validate:"gte=0"`
}

type StationsConfig struct {
	Source      string `yaml:"source" validate:"omitempty,oneof=csv postgres"`
	SmallCSV    string `yaml:"smallCSV"`
	JunctionCSV string `yaml:"junctionCSV"`
	Table       string `yaml:"table"`
}

type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Geocode   GeocodeConfig   `yaml:"geocode"`
	RailRadar RailRadarConfig `yaml:"railradar"`
	Stations  StationsConfig  `yaml:"stations"`
}

var Config AppConfig

// LoadAppConfig fills Config from defaults, an optional config.yml and
// environment overrides, in that order, then validates the result.
func LoadAppConfig() error {
	cfg := AppConfig{
		Server: ServerConfig{Port: 8080},
		Geocode: GeocodeConfig{
			BaseURL:        "https://nominatim.openstreetmap.org",
			UserAgent:      "railway_station_finder",
			TimeoutSeconds: 10,
			MinDelayMS:     1000,
		},
		RailRadar: RailRadarConfig{
			BaseURL:        "https://api.railradar.org",
			TimeoutSeconds: 15,
		},
		Stations: StationsConfig{
			Source:      "csv",
			SmallCSV:    "Only_small.csv",
			JunctionCSV: "mp_junction.csv",
			Table:       "stations",
		},
	}

	for _, p := range []string{"config.yml", "config.yaml"} {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return err
		}
		break
	}

	applyEnvOverrides(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}

	Config = cfg
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
	cfg.Geocode.BaseURL = getEnvWithDefault("GEOCODER_URL", cfg.Geocode.BaseURL)
	cfg.Geocode.UserAgent = getEnvWithDefault("GEOCODER_USER_AGENT", cfg.Geocode.UserAgent)
	cfg.RailRadar.BaseURL = getEnvWithDefault("RAILRADAR_URL", cfg.RailRadar.BaseURL)
	cfg.RailRadar.APIKey = getEnvWithDefault("RAILRADAR_API_KEY", cfg.RailRadar.APIKey)
	cfg.Stations.Source = getEnvWithDefault("STATION_SOURCE", cfg.Stations.Source)
	cfg.Stations.SmallCSV = getEnvWithDefault("SMALL_STATIONS_CSV", cfg.Stations.SmallCSV)
	cfg.Stations.JunctionCSV = getEnvWithDefault("JUNCTION_STATIONS_CSV", cfg.Stations.JunctionCSV)
	cfg.Stations.Table = getEnvWithDefault("STATIONS_TABLE", cfg.Stations.Table)
}

// LoadEnv loads environment variables from a .env file if one exists.
// Variables already present in the environment are not overwritten.
func LoadEnv() error {
	possiblePaths := []string{
		".env",
		"../.env",
		os.Getenv("RAILFINDER_ENV"),
	}

	var loadedFile string
	for _, path := range possiblePaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			loadedFile = path
			break
		}
	}

	if loadedFile == "" {
		return nil
	}

	file, err := os.Open(loadedFile)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

// Helper functions
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
