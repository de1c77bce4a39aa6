package pipeline

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"jobscout/aggregator-service/internal/model"
	"jobscout/aggregator-service/internal/scoring"
	"jobscout/aggregator-service/internal/source"
	"jobscout/aggregator-service/internal/store"
)

const (
	// runLockKey serialises concurrent discovery runs: the dedup index is
	// loaded once per run and is not safe under concurrent batch inserts.
	runLockKey = "jobscout:discovery:run_lock"
	runLockTTL = 15 * time.Minute

	// eventJobsDiscovered is published after a completed run so downstream
	// consumers (gateway SSE, notifiers) can react.
	eventJobsDiscovered = "EVENT_JOBS_DISCOVERED"
)

// ErrRunInProgress is returned when another discovery run holds the lock.
var ErrRunInProgress = fmt.Errorf("another discovery run is in progress")

// Notifier delivers a completed run's new jobs somewhere (email, chat, …).
// Delivery failures are logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, jobs []model.JobRecord, summary model.RunSummary) error
}

// Runner executes the full aggregation pipeline for one discovery run.
type Runner struct {
	store    *store.Store
	rdb      *redis.Client
	fetchers []source.Fetcher
	location string
	notifier Notifier // optional
}

// NewRunner constructs a Runner over the given providers.
func NewRunner(st *store.Store, rdb *redis.Client, fetchers []source.Fetcher, location string) *Runner {
	return &Runner{store: st, rdb: rdb, fetchers: fetchers, location: location}
}

// WithNotifier attaches an optional delivery hook invoked after each run.
func (r *Runner) WithNotifier(n Notifier) *Runner {
	r.notifier = n
	return r
}

// sourceResult is one adapter's contribution: its postings or its error,
// never both meaningfully. A failed provider counts as zero results.
type sourceResult struct {
	src      model.Source
	postings []model.JobPosting
	err      error
}

// Run executes one discovery run with the given keyword snapshot: fan out
// to all providers, title-gate, resolve duplicates, score, and persist what
// survives under a new search session.
//
// Only store-level failures abort a run. Provider failures are absorbed as
// zero results and duplicate skips are statistics, not errors.
func (r *Runner) Run(ctx context.Context, keywords []model.UserKeyword) (model.RunSummary, error) {
	cfg, err := r.store.LoadFilters(ctx)
	if err != nil {
		return model.RunSummary{}, fmt.Errorf("load filters: %w", err)
	}

	queries := BuildSearchQueries(keywords, r.location)
	log.Printf("[pipeline] Starting discovery run — %d queries, %d providers", len(queries), len(r.fetchers))

	raw := r.fetchAll(ctx, queries)

	// Title gate before anything else: no point resolving or scoring a
	// posting we are going to discard on its title.
	gateExclude := titleGateExclude(cfg)
	gated := raw[:0]
	for _, p := range raw {
		if PassesTitleGate(p.Title, cfg.TitleMustContain, gateExclude) {
			gated = append(gated, p)
		}
	}
	log.Printf("[pipeline] Title gate: %d of %d postings passed", len(gated), len(raw))

	batch, duplicates := Resolve(gated)
	if duplicates > 0 {
		log.Printf("[pipeline] Cross-source dedup removed %d duplicates, %d unique postings remain", duplicates, len(batch))
	}

	boosts, excludes := splitKeywords(keywords)

	if err := r.acquireRunLock(ctx); err != nil {
		return model.RunSummary{}, err
	}
	defer r.releaseRunLock(ctx)

	summary, inserted, err := r.persistBatch(ctx, batch, boosts, excludes, cfg, keywords)
	if err != nil {
		return model.RunSummary{}, err
	}

	r.publishDiscovered(ctx, summary)
	if r.notifier != nil && len(inserted) > 0 {
		if err := r.notifier.Notify(ctx, inserted, summary); err != nil {
			slog.Warn("notify failed", "err", err)
		}
	}

	log.Printf("[pipeline] Run complete — session=%d new=%d fetched=%d",
		summary.SessionID, summary.NewCount, summary.TotalFetched)
	return summary, nil
}

// fetchAll runs every provider concurrently. Adapters share no mutable
// state, so the only synchronisation is collecting their result pairs.
func (r *Runner) fetchAll(ctx context.Context, queries []string) []model.JobPosting {
	results := make(chan sourceResult, len(r.fetchers))

	var wg sync.WaitGroup
	for _, f := range r.fetchers {
		wg.Add(1)
		go func(f source.Fetcher) {
			defer wg.Done()
			postings, err := f.Fetch(ctx, queries)
			results <- sourceResult{src: f.Source(), postings: postings, err: err}
		}(f)
	}
	wg.Wait()
	close(results)

	var all []model.JobPosting
	for res := range results {
		if res.err != nil {
			log.Printf("[pipeline] Provider %s failed: %v — continuing with zero results", res.src, res.err)
			continue
		}
		log.Printf("[pipeline] Provider %s: %d postings", res.src, len(res.postings))
		all = append(all, res.postings...)
	}
	return all
}

// persistBatch scores the batch and inserts what the persistence gate
// admits, under a freshly created search session.
func (r *Runner) persistBatch(
	ctx context.Context,
	batch []model.JobPosting,
	boosts, excludes []scoring.WeightedKeyword,
	cfg scoring.FilterConfig,
	keywords []model.UserKeyword,
) (model.RunSummary, []model.JobRecord, error) {
	sessionID, err := r.store.CreateSession(ctx, boostKeywordNames(keywords), contributingSources(batch))
	if err != nil {
		return model.RunSummary{}, nil, fmt.Errorf("create session: %w", err)
	}

	snapshot, err := r.store.DedupSnapshot(ctx)
	if err != nil {
		return model.RunSummary{}, nil, fmt.Errorf("load dedup snapshot: %w", err)
	}
	index := NewDedupIndex(snapshot)

	var inserted []model.JobRecord
	for _, posting := range batch {
		scored := scoring.Score(posting, boosts, excludes, cfg)
		if !index.Admit(scored) {
			continue
		}

		rec := recordFromScored(scored, sessionID)
		ok, err := r.store.InsertJob(ctx, &rec)
		if err != nil {
			log.Printf("[pipeline] Insert failed for %q: %v — continuing", rec.UniqueKey, err)
			continue
		}
		if ok {
			inserted = append(inserted, rec)
		}
	}

	if err := r.store.FinalizeSession(ctx, sessionID, len(inserted)); err != nil {
		return model.RunSummary{}, nil, fmt.Errorf("finalize session: %w", err)
	}

	return model.RunSummary{
		SessionID:    sessionID,
		NewCount:     len(inserted),
		TotalFetched: len(batch),
	}, inserted, nil
}

// acquireRunLock takes the Redis run lock. A held lock is an error; an
// unreachable Redis is degraded to a warning so runs still happen when the
// lock service itself is down.
func (r *Runner) acquireRunLock(ctx context.Context) error {
	if r.rdb == nil {
		return nil
	}
	ok, err := r.rdb.SetNX(ctx, runLockKey, time.Now().UTC().Format(time.RFC3339), runLockTTL).Result()
	if err != nil {
		slog.Warn("run lock unavailable, proceeding unlocked", "err", err)
		return nil
	}
	if !ok {
		return ErrRunInProgress
	}
	return nil
}

func (r *Runner) releaseRunLock(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, runLockKey).Err(); err != nil {
		slog.Warn("release run lock failed", "err", err)
	}
}

// publishDiscovered announces the completed run on Redis (non-fatal).
func (r *Runner) publishDiscovered(ctx context.Context, summary model.RunSummary) {
	if r.rdb == nil {
		return
	}
	event := fmt.Sprintf(`{"type":%q,"sessionId":%d,"newCount":%d}`,
		eventJobsDiscovered, summary.SessionID, summary.NewCount)
	if err := r.rdb.Publish(ctx, eventJobsDiscovered, event).Err(); err != nil {
		slog.Warn("publish EVENT_JOBS_DISCOVERED failed", "err", err)
	}
}

func recordFromScored(p model.ScoredPosting, sessionID int64) model.JobRecord {
	return model.JobRecord{
		ProviderJobID:   p.ProviderJobID,
		Source:          p.Source,
		UniqueKey:       UniqueKey(p.JobPosting),
		Title:           p.Title,
		Company:         p.Company,
		Location:        p.Location,
		Salary:          p.Salary,
		URL:             p.URL,
		Description:     p.Description,
		PostedDate:      p.PostedDate,
		MatchScore:      p.MatchScore,
		MatchTags:       p.MatchTags,
		ExperienceOK:    p.ExperienceOK,
		SearchSessionID: sessionID,
	}
}

// splitKeywords partitions the keyword snapshot for the scorer. Exclude
// keywords missing a weight fall back to 2.0 so a warning costs more than
// a typical boost gains.
func splitKeywords(keywords []model.UserKeyword) (boosts, excludes []scoring.WeightedKeyword) {
	for _, kw := range keywords {
		w := kw.Weight
		switch kw.Category {
		case model.CategoryBoost:
			if w == 0 {
				w = 1.0
			}
			boosts = append(boosts, scoring.WeightedKeyword{Keyword: kw.Keyword, Weight: w})
		case model.CategoryExclude:
			if w == 0 {
				w = 2.0
			}
			excludes = append(excludes, scoring.WeightedKeyword{Keyword: kw.Keyword, Weight: w})
		}
	}
	return boosts, excludes
}

func boostKeywordNames(keywords []model.UserKeyword) []string {
	var names []string
	for _, kw := range keywords {
		if kw.Category == model.CategoryBoost {
			names = append(names, kw.Keyword)
		}
	}
	return names
}

// contributingSources lists the distinct providers present in the batch.
func contributingSources(batch []model.JobPosting) []string {
	set := make(map[string]struct{})
	for _, p := range batch {
		set[string(p.Source)] = struct{}{}
	}
	sources := make([]string, 0, len(set))
	for s := range set {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}
