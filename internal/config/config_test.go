package config_test

import (
	"testing"

	"jobscout/aggregator-service/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/jobscout")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

// With only the required variables set, every optional field gets its
// default.
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "8082" {
		t.Errorf("Port = %q, want 8082", cfg.Port)
	}
	if cfg.ScrapeIntervalHours != 6 {
		t.Errorf("ScrapeIntervalHours = %d, want 6", cfg.ScrapeIntervalHours)
	}
	if cfg.SearchLocation != "london" {
		t.Errorf("SearchLocation = %q, want london", cfg.SearchLocation)
	}
	if cfg.AdzunaCountry != "gb" {
		t.Errorf("AdzunaCountry = %q, want gb", cfg.AdzunaCountry)
	}
	if cfg.JungleIndex != "wttj_jobs_production_en" {
		t.Errorf("JungleIndex = %q, want wttj_jobs_production_en", cfg.JungleIndex)
	}
	if !cfg.RetrainOnSchedule {
		t.Error("RetrainOnSchedule = false, want true by default")
	}
}

// A missing DATABASE_URL fails fast.
func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	if _, err := config.Load(); err == nil {
		t.Error("Load = nil error without DATABASE_URL, want error")
	}
}

// A missing REDIS_URL fails fast.
func TestLoad_RequiresRedisURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/jobscout")
	t.Setenv("REDIS_URL", "")

	if _, err := config.Load(); err == nil {
		t.Error("Load = nil error without REDIS_URL, want error")
	}
}

// Scrape interval must be a positive integer.
func TestLoad_RejectsBadInterval(t *testing.T) {
	setRequired(t)
	for _, v := range []string{"zero", "0", "-3"} {
		t.Setenv("SCRAPE_INTERVAL_HOURS", v)
		if _, err := config.Load(); err == nil {
			t.Errorf("Load = nil error with SCRAPE_INTERVAL_HOURS=%q, want error", v)
		}
	}
}

// Overrides are honoured.
func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPE_INTERVAL_HOURS", "12")
	t.Setenv("SEARCH_LOCATION", "manchester")
	t.Setenv("RETRAIN_ON_SCHEDULE", "false")
	t.Setenv("REED_API_KEY", "reed-key")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ScrapeIntervalHours != 12 {
		t.Errorf("ScrapeIntervalHours = %d, want 12", cfg.ScrapeIntervalHours)
	}
	if cfg.SearchLocation != "manchester" {
		t.Errorf("SearchLocation = %q, want manchester", cfg.SearchLocation)
	}
	if cfg.RetrainOnSchedule {
		t.Error("RetrainOnSchedule = true, want false")
	}
	if cfg.ReedAPIKey != "reed-key" {
		t.Errorf("ReedAPIKey = %q, want reed-key", cfg.ReedAPIKey)
	}
}
