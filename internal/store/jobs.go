package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"jobscout/aggregator-service/internal/model"
)

const jobColumns = `id, provider_job_id, source, unique_key, title, company, location,
	salary, url, description, posted_date, match_score, match_tags,
	experience_ok, search_session_id, first_seen_at`

// InsertJob inserts a new job record, skipping silently when the unique key
// already exists. Returns true when a row was actually written.
func (s *Store) InsertJob(ctx context.Context, rec *model.JobRecord) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (provider_job_id, source, unique_key, title, company, location,
		                   salary, url, description, posted_date, match_score, match_tags,
		                   experience_ok, search_session_id, first_seen_at)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW()
		 WHERE NOT EXISTS (
		   SELECT 1 FROM jobs WHERE unique_key = $3
		 )`,
		rec.ProviderJobID, string(rec.Source), rec.UniqueKey, rec.Title, rec.Company,
		rec.Location, rec.Salary, rec.URL, rec.Description, rec.PostedDate,
		rec.MatchScore, encodeStrings(rec.MatchTags), rec.ExperienceOK, rec.SearchSessionID,
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DedupSnapshot loads the fields the persistence gate needs from every
// stored non-hard-rejected record: unique key, company+title (identity) and
// description (fingerprint). Loaded once per run.
func (s *Store) DedupSnapshot(ctx context.Context) ([]model.JobRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT unique_key, title, company, description
		 FROM jobs
		 WHERE match_score > $1`,
		model.HardRejectScore,
	)
	if err != nil {
		return nil, fmt.Errorf("query dedup snapshot: %w", err)
	}
	defer rows.Close()

	var records []model.JobRecord
	for rows.Next() {
		var r model.JobRecord
		if err := rows.Scan(&r.UniqueKey, &r.Title, &r.Company, &r.Description); err != nil {
			return nil, fmt.Errorf("scan dedup snapshot: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// JobFilter narrows ListJobs results. Hard-rejected records are always
// excluded; everything else is opt-in.
type JobFilter struct {
	MinScore      *float64
	Source        model.Source
	ExperienceOK  *bool
	SessionID     int64
	HideDismissed bool // drop jobs the user marked not_interested
	HideProcessed bool // drop jobs with any application, and their cross-source twins
	SortByDate    bool // default is by score, descending
	Limit         int
	Offset        int
}

// ListJobs returns stored jobs matching the filter, best score first.
func (s *Store) ListJobs(ctx context.Context, f JobFilter) ([]model.JobRecord, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + jobColumns + ` FROM jobs WHERE match_score > $1`)
	args := []any{float64(model.HardRejectScore)}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.MinScore != nil {
		sb.WriteString(` AND match_score >= ` + arg(*f.MinScore))
	}
	if f.Source != "" {
		sb.WriteString(` AND source = ` + arg(string(f.Source)))
	}
	if f.ExperienceOK != nil {
		sb.WriteString(` AND experience_ok = ` + arg(*f.ExperienceOK))
	}
	if f.SessionID != 0 {
		sb.WriteString(` AND search_session_id = ` + arg(f.SessionID))
	}
	if f.HideDismissed {
		sb.WriteString(` AND id NOT IN (
			SELECT job_id FROM job_applications WHERE status = 'not_interested')`)
	}
	if f.HideProcessed {
		// Also drops cross-source twins of processed jobs: rows that predate
		// the insert-level dedup can still share a title+company pair.
		sb.WriteString(` AND id NOT IN (SELECT job_id FROM job_applications)
			AND (LOWER(title), LOWER(company)) NOT IN (
				SELECT LOWER(j.title), LOWER(j.company)
				FROM jobs j JOIN job_applications a ON a.job_id = j.id)`)
	}

	if f.SortByDate {
		sb.WriteString(` ORDER BY first_seen_at DESC`)
	} else {
		sb.WriteString(` ORDER BY match_score DESC`)
	}
	if f.Limit > 0 {
		sb.WriteString(` LIMIT ` + arg(f.Limit))
	}
	if f.Offset > 0 {
		sb.WriteString(` OFFSET ` + arg(f.Offset))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// GetJob returns a single stored job by id.
func (s *Store) GetJob(ctx context.Context, id int64) (*model.JobRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	defer rows.Close()

	records, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

// AllJobs returns every stored record, used by the rescoring pass and the
// feedback learner.
func (s *Store) AllJobs(ctx context.Context) ([]model.JobRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("query all jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// UpdateScore rewrites a record's scoring fields in place. Only the
// rescoring pass calls this; the pipeline never mutates a stored record.
func (s *Store) UpdateScore(ctx context.Context, id int64, score float64, tags []string, experienceOK bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET match_score = $1, match_tags = $2, experience_ok = $3 WHERE id = $4`,
		score, encodeStrings(tags), experienceOK, id,
	)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountJobs returns the total number of stored records.
func (s *Store) CountJobs(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

func scanJobs(rows pgx.Rows) ([]model.JobRecord, error) {
	var records []model.JobRecord
	for rows.Next() {
		var (
			r       model.JobRecord
			source  string
			rawTags string
		)
		if err := rows.Scan(
			&r.ID, &r.ProviderJobID, &source, &r.UniqueKey, &r.Title, &r.Company,
			&r.Location, &r.Salary, &r.URL, &r.Description, &r.PostedDate,
			&r.MatchScore, &rawTags, &r.ExperienceOK, &r.SearchSessionID, &r.FirstSeenAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		r.Source = model.Source(source)
		r.MatchTags = decodeStrings(rawTags)
		records = append(records, r)
	}
	return records, rows.Err()
}
