// Package scheduler wires up the cron job that periodically triggers a full
// discovery run.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"jobscout/aggregator-service/internal/learner"
	"jobscout/aggregator-service/internal/pipeline"
	"jobscout/aggregator-service/internal/store"
)

// Scheduler wraps robfig/cron and manages the discovery loop.
type Scheduler struct {
	cron    *cron.Cron
	store   *store.Store
	runner  *pipeline.Runner
	learner *learner.Learner // nil disables retraining after runs
	spec    string           // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours. Pass a nil
// learner to skip retraining after scheduled runs.
func New(st *store.Store, runner *pipeline.Runner, l *learner.Learner, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		store:   st,
		runner:  runner,
		learner: l,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one discovery
// pass immediately so the feed is populated without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runCycle executes one discovery run with the current keyword set, then
// optionally retrains keyword weights from accumulated feedback.
func (s *Scheduler) runCycle(ctx context.Context) {
	log.Println("[scheduler] Discovery cycle started")

	keywords, err := s.store.ListKeywords(ctx)
	if err != nil {
		log.Printf("[scheduler] ListKeywords error: %v", err)
		return
	}

	summary, err := s.runner.Run(ctx, keywords)
	if err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			log.Println("[scheduler] Skipping cycle — previous run still in progress")
			return
		}
		log.Printf("[scheduler] Run error: %v", err)
		return
	}
	log.Printf("[scheduler] Discovery cycle complete — session=%d new=%d", summary.SessionID, summary.NewCount)

	if s.learner == nil {
		return
	}
	result, err := s.learner.Retrain(ctx)
	if err != nil {
		log.Printf("[scheduler] Retrain error: %v", err)
		return
	}
	if len(result.Updates) > 0 {
		if updated, err := pipeline.RescoreAll(ctx, s.store); err != nil {
			log.Printf("[scheduler] Rescore error: %v", err)
		} else {
			log.Printf("[scheduler] Rescored %d records after %d weight updates", updated, len(result.Updates))
		}
	}
}
