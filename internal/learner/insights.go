package learner

import (
	"context"
	"fmt"
	"math"
	"strings"

	"jobscout/aggregator-service/internal/model"
)

// KeywordStat describes one boost keyword's performance.
type KeywordStat struct {
	Keyword        string  `json:"keyword"`
	Weight         float64 `json:"weight"`
	Provenance     string  `json:"source"`
	AppliedJobHits int     `json:"appliedJobHits"`
}

// Insights is a read-only view of how the keyword set is performing.
type Insights struct {
	KeywordStats      []KeywordStat `json:"keywordStats"`
	TotalJobs         int           `json:"totalJobs"`
	TotalApplications int           `json:"totalApplications"`
	TotalFeedbacks    int           `json:"totalFeedbacks"`
	ApplicationRate   float64       `json:"applicationRate"` // percent, 1dp
}

// Insights reports per-keyword hit counts across positively actioned jobs
// plus store-wide totals.
func (l *Learner) Insights(ctx context.Context) (Insights, error) {
	snap, err := l.loadSnapshot(ctx)
	if err != nil {
		return Insights{}, err
	}

	var positive []model.JobRecord
	for _, job := range snap.Jobs {
		if status, ok := snap.Dispositions[job.ID]; ok && status.IsPositive() {
			positive = append(positive, job)
		}
	}

	var stats []KeywordStat
	for _, kw := range boostKeywords(snap.Keywords) {
		hits := 0
		key := strings.ToLower(kw.Keyword)
		for _, job := range positive {
			text := strings.ToLower(job.Title + " " + job.Description)
			if strings.Contains(text, key) {
				hits++
			}
		}
		stats = append(stats, KeywordStat{
			Keyword:        kw.Keyword,
			Weight:         kw.Weight,
			Provenance:     kw.Provenance,
			AppliedJobHits: hits,
		})
	}

	totalApps, err := l.store.CountApplications(ctx)
	if err != nil {
		return Insights{}, fmt.Errorf("count applications: %w", err)
	}

	out := Insights{
		KeywordStats:      stats,
		TotalJobs:         len(snap.Jobs),
		TotalApplications: totalApps,
		TotalFeedbacks:    len(snap.Feedback),
	}
	if out.TotalJobs > 0 {
		out.ApplicationRate = math.Round(float64(totalApps)/float64(out.TotalJobs)*1000) / 10
	}
	return out, nil
}
