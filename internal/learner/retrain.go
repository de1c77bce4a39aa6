// Package learner adjusts keyword weights from application outcomes and
// suggests new keywords from user feedback.
package learner

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"jobscout/aggregator-service/internal/model"
	"jobscout/aggregator-service/internal/store"
)

// Weight adjustment coefficients. Positive signals push a keyword's weight
// up from the 1.0 baseline, negative signals pull it down, and the result
// is clamped to the model weight bounds.
const (
	baseWeight        = 1.0
	positiveStep      = 0.3 // per positive job containing the keyword
	feedbackStep      = 0.5 // per explicit feedback mention
	notInterestedStep = 0.4 // per dismissed job containing the keyword
	ignoredStep       = 0.2 // per ignored high-score job, only without positives
	weightEpsilon     = 0.01

	// ignoredScoreFloor bounds the weak-negative signal: only jobs that
	// scored well yet drew no action count as ignored.
	ignoredScoreFloor = 3

	minedKeywordWeight = 1.5 // starting weight for keywords mined from feedback
	minedMinMentions   = 2
	minedMaxKeywords   = 10
)

// Snapshot is everything a retraining pass reads. Loading it up front keeps
// the weight computation pure and testable without a database.
type Snapshot struct {
	Keywords     []model.UserKeyword
	Jobs         []model.JobRecord
	Dispositions map[int64]model.ApplicationStatus // latest status per job
	Feedback     []model.ApplicationFeedback
}

// WeightUpdate records one keyword's weight change from a retraining pass.
type WeightUpdate struct {
	KeywordID int64   `json:"-"`
	Keyword   string  `json:"keyword"`
	OldWeight float64 `json:"oldWeight"`
	NewWeight float64 `json:"newWeight"`
}

// RetrainResult summarises a retraining pass.
type RetrainResult struct {
	PositiveJobs     int            `json:"positiveJobsCount"`
	NotInterested    int            `json:"notInterestedCount"`
	IgnoredJobs      int            `json:"ignoredJobsCount"`
	Updates          []WeightUpdate `json:"weightUpdates"`
	NewKeywords      []string       `json:"newKeywords"`
	FeedbackAnalyzed int            `json:"totalFeedbacksAnalyzed"`
}

// Retrain computes new boost-keyword weights from the snapshot. It mutates
// nothing; callers persist the returned updates and mined keywords.
//
// The pass is idempotent: weights are recomputed from the 1.0 baseline each
// time, so running it twice over the same snapshot yields no second round
// of updates.
func Retrain(snap Snapshot) RetrainResult {
	var positive, notInterested, ignored []model.JobRecord
	for _, job := range snap.Jobs {
		status, actioned := snap.Dispositions[job.ID]
		switch {
		case actioned && status.IsPositive():
			positive = append(positive, job)
		case actioned && status == model.StatusNotInterested:
			notInterested = append(notInterested, job)
		case !actioned && job.MatchScore >= ignoredScoreFloor:
			ignored = append(ignored, job)
		}
	}

	boosts := boostKeywords(snap.Keywords)
	posCounts := countOccurrences(boosts, positive)
	niCounts := countOccurrences(boosts, notInterested)
	ignCounts := countOccurrences(boosts, ignored)
	fbCounts := feedbackMentions(snap.Feedback)

	result := RetrainResult{
		PositiveJobs:     len(positive),
		NotInterested:    len(notInterested),
		IgnoredJobs:      len(ignored),
		FeedbackAnalyzed: len(snap.Feedback),
	}

	for _, kw := range boosts {
		key := strings.ToLower(kw.Keyword)
		weight := baseWeight
		weight += positiveStep * float64(posCounts[key])
		weight += feedbackStep * float64(fbCounts[key])
		weight -= notInterestedStep * float64(niCounts[key])
		if posCounts[key] == 0 {
			weight -= ignoredStep * float64(ignCounts[key])
		}
		weight = model.ClampWeight(weight)
		weight = math.Round(weight*100) / 100

		if math.Abs(weight-kw.Weight) > weightEpsilon {
			result.Updates = append(result.Updates, WeightUpdate{
				KeywordID: kw.ID,
				Keyword:   kw.Keyword,
				OldWeight: kw.Weight,
				NewWeight: weight,
			})
		}
	}

	result.NewKeywords = mineFeedbackKeywords(fbCounts, snap.Keywords)
	return result
}

// mineFeedbackKeywords picks the most-mentioned feedback keywords not yet
// tracked, capped at minedMaxKeywords.
func mineFeedbackKeywords(fbCounts map[string]int, existing []model.UserKeyword) []string {
	known := make(map[string]struct{}, len(existing))
	for _, kw := range existing {
		known[strings.ToLower(kw.Keyword)] = struct{}{}
	}

	type mention struct {
		keyword string
		count   int
	}
	var candidates []mention
	for kw, n := range fbCounts {
		if _, ok := known[kw]; ok || n < minedMinMentions {
			continue
		}
		candidates = append(candidates, mention{keyword: kw, count: n})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].keyword < candidates[j].keyword
	})
	if len(candidates) > minedMaxKeywords {
		candidates = candidates[:minedMaxKeywords]
	}

	var mined []string
	for _, c := range candidates {
		mined = append(mined, c.keyword)
	}
	return mined
}

func boostKeywords(keywords []model.UserKeyword) []model.UserKeyword {
	var boosts []model.UserKeyword
	for _, kw := range keywords {
		if kw.Category == model.CategoryBoost {
			boosts = append(boosts, kw)
		}
	}
	return boosts
}

// countOccurrences counts, per keyword, how many jobs mention it in the
// title or description.
func countOccurrences(keywords []model.UserKeyword, jobs []model.JobRecord) map[string]int {
	counts := make(map[string]int)
	for _, job := range jobs {
		text := strings.ToLower(job.Title + " " + job.Description)
		for _, kw := range keywords {
			key := strings.ToLower(kw.Keyword)
			if strings.Contains(text, key) {
				counts[key]++
			}
		}
	}
	return counts
}

func feedbackMentions(feedback []model.ApplicationFeedback) map[string]int {
	counts := make(map[string]int)
	for _, fb := range feedback {
		for _, kw := range fb.KeywordsMentioned {
			counts[strings.ToLower(kw)]++
		}
	}
	return counts
}

// Learner wires the retraining pass to the store.
type Learner struct {
	store *store.Store
}

func New(st *store.Store) *Learner {
	return &Learner{store: st}
}

// Retrain loads the current snapshot, computes weight updates, and persists
// them along with any newly mined feedback keywords.
func (l *Learner) Retrain(ctx context.Context) (RetrainResult, error) {
	snap, err := l.loadSnapshot(ctx)
	if err != nil {
		return RetrainResult{}, err
	}

	result := Retrain(snap)

	for _, u := range result.Updates {
		if err := l.store.UpdateKeywordWeight(ctx, u.KeywordID, u.NewWeight, model.ProvenanceLearned); err != nil {
			return result, fmt.Errorf("update weight for %q: %w", u.Keyword, err)
		}
	}
	for _, kw := range result.NewKeywords {
		if _, err := l.store.AddKeyword(ctx, kw, model.CategoryBoost, minedKeywordWeight, model.ProvenanceLearned); err != nil {
			return result, fmt.Errorf("add mined keyword %q: %w", kw, err)
		}
	}

	log.Printf("[learner] Retrain: %d positive, %d dismissed, %d ignored jobs — %d weight updates, %d new keywords",
		result.PositiveJobs, result.NotInterested, result.IgnoredJobs,
		len(result.Updates), len(result.NewKeywords))
	return result, nil
}

func (l *Learner) loadSnapshot(ctx context.Context) (Snapshot, error) {
	keywords, err := l.store.ListKeywords(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list keywords: %w", err)
	}
	jobs, err := l.store.AllJobs(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load jobs: %w", err)
	}
	dispositions, err := l.store.Dispositions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load dispositions: %w", err)
	}
	feedback, err := l.store.AllFeedback(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load feedback: %w", err)
	}
	return Snapshot{
		Keywords:     keywords,
		Jobs:         jobs,
		Dispositions: dispositions,
		Feedback:     feedback,
	}, nil
}
