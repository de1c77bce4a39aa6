// jobscout-aggregator-service
//
// Aggregates job postings from multiple providers, filters and scores them
// against user keywords and hard filters, deduplicates across providers and
// runs, and stores survivors in PostgreSQL. A cron loop re-runs discovery
// on an interval and retrains keyword weights from application feedback.
// Publishes EVENT_JOBS_DISCOVERED to Redis for Gateway SSE forward.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobscout/aggregator-service/internal/config"
	"jobscout/aggregator-service/internal/db"
	"jobscout/aggregator-service/internal/learner"
	"jobscout/aggregator-service/internal/pipeline"
	"jobscout/aggregator-service/internal/scheduler"
	"jobscout/aggregator-service/internal/source"
	"jobscout/aggregator-service/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[aggregator-service] No .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[aggregator-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[aggregator-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[aggregator-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[aggregator-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[aggregator-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[aggregator-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[aggregator-service] Redis connected ✓")

	// ── Pipeline ─────────────────────────────────────────────────────────────
	st := store.New(pool)

	filters, err := st.LoadFilters(ctx)
	if err != nil {
		log.Fatalf("[aggregator-service] Filter settings: %v", err)
	}

	fetchers := buildFetchers(cfg, filters.MinSalary)
	runner := pipeline.NewRunner(st, rdb, fetchers, cfg.SearchLocation)

	var l *learner.Learner
	if cfg.RetrainOnSchedule {
		l = learner.New(st)
	}

	sched := scheduler.New(st, runner, l, cfg.ScrapeIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[aggregator-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[aggregator-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[aggregator-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[aggregator-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[aggregator-service] Shutdown error: %v", err)
	}
	log.Println("[aggregator-service] Stopped.")
}

// buildFetchers assembles every provider adapter. Adapters with missing
// credentials still run; they log the gap and return zero results.
func buildFetchers(cfg *config.Config, minSalary int) []source.Fetcher {
	return []source.Fetcher{
		source.NewAdzunaFetcher(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry, cfg.SearchLocation, minSalary),
		source.NewReedFetcher(cfg.ReedAPIKey, cfg.SearchLocation, minSalary),
		source.NewLinkedInFetcher(cfg.SearchLocation),
		source.NewSerpAPIFetcher(cfg.SerpAPIKey, cfg.SearchLocation),
		source.NewFeedBridgeFetcher(source.DefaultFeedBridges, source.DefaultFeedQueries, cfg.SearchLocation),
		source.NewJungleFetcher(cfg.JungleAppID, cfg.JungleAPIKey, cfg.JungleIndex, cfg.SearchLocation),
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "aggregator-service",
		"version": version,
	})
}
