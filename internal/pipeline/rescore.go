package pipeline

import (
	"context"
	"fmt"
	"log"

	"jobscout/aggregator-service/internal/model"
	"jobscout/aggregator-service/internal/scoring"
	"jobscout/aggregator-service/internal/store"
)

// RescoreAll reapplies the current keyword weights and filter settings to
// every stored record and returns how many were updated.
//
// Hard-rejected records keep their sentinel: a rejection already recorded
// is final, even if the filter settings have since relaxed.
func RescoreAll(ctx context.Context, st *store.Store) (int, error) {
	keywords, err := st.ListKeywords(ctx)
	if err != nil {
		return 0, fmt.Errorf("list keywords: %w", err)
	}
	cfg, err := st.LoadFilters(ctx)
	if err != nil {
		return 0, fmt.Errorf("load filters: %w", err)
	}
	boosts, excludes := splitKeywords(keywords)

	records, err := st.AllJobs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load jobs: %w", err)
	}

	updated := 0
	for _, rec := range records {
		if rec.MatchScore <= model.HardRejectScore {
			continue
		}
		scored := scoring.Score(rec.Posting(), boosts, excludes, cfg)
		if err := st.UpdateScore(ctx, rec.ID, scored.MatchScore, scored.MatchTags, scored.ExperienceOK); err != nil {
			return updated, fmt.Errorf("update score for job %d: %w", rec.ID, err)
		}
		updated++
	}
	log.Printf("[pipeline] Rescored %d records with %d boost / %d exclude keywords",
		updated, len(boosts), len(excludes))
	return updated, nil
}
