// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the aggregator service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	SearchLocation      string // appended to every search query, e.g. "london"
	ScrapeIntervalHours int    // how often the cron job fires
	RetrainOnSchedule   bool   // run a learner pass after each scheduled run

	// Provider credentials. An adapter with missing credentials is skipped
	// with a warning rather than failing the run.
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string // e.g. "gb", "fr", "us"
	ReedAPIKey    string
	SerpAPIKey    string
	JungleAppID   string
	JungleAPIKey  string
	JungleIndex   string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 6
	if s := os.Getenv("SCRAPE_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SCRAPE_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	location := os.Getenv("SEARCH_LOCATION")
	if location == "" {
		location = "london"
	}

	port := os.Getenv("AGGREGATOR_PORT")
	if port == "" {
		port = "8082"
	}

	retrain := true
	if s := os.Getenv("RETRAIN_ON_SCHEDULE"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("RETRAIN_ON_SCHEDULE must be a boolean, got %q", s)
		}
		retrain = v
	}

	country := os.Getenv("ADZUNA_COUNTRY")
	if country == "" {
		country = "gb"
	}

	jungleIndex := os.Getenv("JUNGLE_ALGOLIA_INDEX")
	if jungleIndex == "" {
		jungleIndex = "wttj_jobs_production_en"
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		SearchLocation:      location,
		ScrapeIntervalHours: interval,
		RetrainOnSchedule:   retrain,
		AdzunaAppID:         os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:        os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry:       country,
		ReedAPIKey:          os.Getenv("REED_API_KEY"),
		SerpAPIKey:          os.Getenv("SERPAPI_KEY"),
		JungleAppID:         os.Getenv("JUNGLE_ALGOLIA_APP_ID"),
		JungleAPIKey:        os.Getenv("JUNGLE_ALGOLIA_API_KEY"),
		JungleIndex:         jungleIndex,
	}, nil
}
