package store

import (
	"context"
	"fmt"
	"time"

	"jobscout/aggregator-service/internal/model"
)

// CreateApplication records the user's first disposition toward a job.
// Returns a ValidationError when an application for the job already exists.
func (s *Store) CreateApplication(ctx context.Context, jobID int64, status model.ApplicationStatus, notes string) (*model.JobApplication, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_applications WHERE job_id = $1)`, jobID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check application: %w", err)
	}
	if exists {
		return nil, &ValidationError{Msg: fmt.Sprintf("application for job %d already exists", jobID)}
	}

	app := model.JobApplication{JobID: jobID, Status: status, Notes: notes}
	var appliedDate *time.Time
	if status == model.StatusApplied {
		now := time.Now().UTC()
		appliedDate = &now
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO job_applications (job_id, status, applied_date, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		jobID, string(status), appliedDate, notes,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	app.AppliedDate = appliedDate
	return &app, nil
}

// UpdateApplicationStatus moves an application to a new disposition.
// AppliedDate is stamped on the first transition to applied.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, status model.ApplicationStatus, notes string) (*model.JobApplication, error) {
	var app model.JobApplication
	var statusStr string
	err := s.pool.QueryRow(ctx,
		`UPDATE job_applications
		 SET status = $1,
		     notes = CASE WHEN $2 <> '' THEN $2 ELSE notes END,
		     applied_date = CASE WHEN $1 = 'applied' AND applied_date IS NULL THEN NOW() ELSE applied_date END,
		     updated_at = NOW()
		 WHERE id = $3
		 RETURNING id, job_id, status, applied_date, notes, created_at, updated_at`,
		string(status), notes, id,
	).Scan(&app.ID, &app.JobID, &statusStr, &app.AppliedDate, &app.Notes, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	app.Status = model.ApplicationStatus(statusStr)
	return &app, nil
}

// ListApplications returns applications, optionally narrowed to one status,
// newest activity first.
func (s *Store) ListApplications(ctx context.Context, status model.ApplicationStatus) ([]model.JobApplication, error) {
	const base = `SELECT id, job_id, status, applied_date, notes, created_at, updated_at
		FROM job_applications`

	var (
		query = base + ` ORDER BY updated_at DESC`
		args  []any
	)
	if status != "" {
		query = base + ` WHERE status = $1 ORDER BY updated_at DESC`
		args = append(args, string(status))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []model.JobApplication
	for rows.Next() {
		var (
			app       model.JobApplication
			statusStr string
		)
		if err := rows.Scan(&app.ID, &app.JobID, &statusStr, &app.AppliedDate, &app.Notes, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		app.Status = model.ApplicationStatus(statusStr)
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// Dispositions returns the latest disposition per job, keyed by job id.
// Jobs with no application are absent from the map.
func (s *Store) Dispositions(ctx context.Context) (map[int64]model.ApplicationStatus, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT ON (job_id) job_id, status
		 FROM job_applications
		 ORDER BY job_id, updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query dispositions: %w", err)
	}
	defer rows.Close()

	dispositions := make(map[int64]model.ApplicationStatus)
	for rows.Next() {
		var (
			jobID  int64
			status string
		)
		if err := rows.Scan(&jobID, &status); err != nil {
			return nil, fmt.Errorf("scan disposition: %w", err)
		}
		dispositions[jobID] = model.ApplicationStatus(status)
	}
	return dispositions, rows.Err()
}

// AddFeedback attaches a feedback event to an application.
func (s *Store) AddFeedback(ctx context.Context, fb *model.ApplicationFeedback) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO application_feedback (application_id, feedback_type, feedback_text, keywords_mentioned, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING id, created_at`,
		fb.ApplicationID, fb.FeedbackType, fb.FeedbackText, encodeStrings(fb.KeywordsMentioned),
	).Scan(&fb.ID, &fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("add feedback: %w", err)
	}
	return nil
}

// AllFeedback returns every recorded feedback event. Malformed keyword JSON
// decodes to an empty list rather than failing the whole read.
func (s *Store) AllFeedback(ctx context.Context) ([]model.ApplicationFeedback, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, application_id, feedback_type, feedback_text, keywords_mentioned, created_at
		 FROM application_feedback`,
	)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var feedback []model.ApplicationFeedback
	for rows.Next() {
		var (
			fb          model.ApplicationFeedback
			rawKeywords string
		)
		if err := rows.Scan(&fb.ID, &fb.ApplicationID, &fb.FeedbackType, &fb.FeedbackText, &rawKeywords, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		fb.KeywordsMentioned = decodeStrings(rawKeywords)
		feedback = append(feedback, fb)
	}
	return feedback, rows.Err()
}

// CountApplications returns the total number of applications.
func (s *Store) CountApplications(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_applications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

// CountFeedback returns the total number of feedback events.
func (s *Store) CountFeedback(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM application_feedback`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}
