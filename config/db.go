package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

const (
	maxRetries = 5
	retryDelay = 5 * time.Second
)

func getPostgresConnString() string {
	host := getEnvWithDefault("DB_HOST", "localhost")
	port := getEnvWithDefault("DB_PORT", "5432")
	user := getEnvWithDefault("DB_USER", "postgres")
	password := getEnvWithDefault("DB_PASSWORD", "1234")
	dbname := getEnvWithDefault("DB_NAME", "railfinder")

	return "host=" + host + " port=" + port + " user=" + user +
		" password=" + password + " dbname=" + dbname + " sslmode=disable"
}

// InitDBWithRetry opens the Postgres pool used as the station-catalog source
// when STATION_SOURCE=postgres. It retries the initial ping because the
// database container often comes up after the service.
func InitDBWithRetry(retries int) error {
	if retries <= 0 {
		retries = maxRetries
	}

	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		DB, err = sql.Open("postgres", getPostgresConnString())
		if err == nil {
			err = DB.Ping()
		}
		if err == nil {
			DB.SetMaxOpenConns(10)
			DB.SetMaxIdleConns(5)
			DB.SetConnMaxLifetime(30 * time.Minute)
			log.Printf("Connected to PostgreSQL on attempt %d", attempt)
			return nil
		}
		log.Printf("PostgreSQL connection attempt %d/%d failed: %v", attempt, retries, err)
		if attempt < retries {
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("could not connect to PostgreSQL after %d attempts: %v", retries, err)
}

func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v", err)
		}
	}
}
