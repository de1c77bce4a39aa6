package store

import (
	"context"
	"fmt"

	"jobscout/aggregator-service/internal/model"
)

// CreateSession inserts a search session row for one pipeline run and
// returns its id. TotalResults starts at zero and is finalised exactly once
// when the run completes.
func (s *Store) CreateSession(ctx context.Context, keywords, sources []string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO search_sessions (query_text, sources, total_results, created_at)
		 VALUES ($1, $2, 0, NOW())
		 RETURNING id`,
		encodeStrings(keywords), encodeStrings(sources),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// FinalizeSession writes the run's newly-stored record count.
func (s *Store) FinalizeSession(ctx context.Context, id int64, totalResults int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE search_sessions SET total_results = $1 WHERE id = $2`,
		totalResults, id,
	)
	if err != nil {
		return fmt.Errorf("finalize session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession returns one session by id.
func (s *Store) GetSession(ctx context.Context, id int64) (*model.SearchSession, error) {
	var (
		sess          model.SearchSession
		rawKeywords   string
		rawSources    string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, query_text, sources, total_results, created_at
		 FROM search_sessions WHERE id = $1`,
		id,
	).Scan(&sess.ID, &rawKeywords, &rawSources, &sess.TotalResults, &sess.CreatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	sess.Keywords = decodeStrings(rawKeywords)
	sess.Sources = decodeStrings(rawSources)
	return &sess, nil
}
