package store

import (
	"context"
	"fmt"
	"strings"

	"jobscout/aggregator-service/internal/model"
)

// ListKeywords returns all tracked keywords, boost first, heaviest first.
func (s *Store) ListKeywords(ctx context.Context) ([]model.UserKeyword, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, keyword, category, weight, provenance, created_at
		 FROM user_keywords
		 ORDER BY category, weight DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []model.UserKeyword
	for rows.Next() {
		var (
			kw       model.UserKeyword
			category string
		)
		if err := rows.Scan(&kw.ID, &kw.Keyword, &category, &kw.Weight, &kw.Provenance, &kw.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		kw.Category = model.KeywordCategory(category)
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// AddKeyword inserts a new tracked keyword. The weight is clamped to the
// allowed range on the way in.
func (s *Store) AddKeyword(ctx context.Context, keyword string, category model.KeywordCategory, weight float64, provenance string) (*model.UserKeyword, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, &ValidationError{Msg: "keyword is required"}
	}
	if provenance == "" {
		provenance = model.ProvenanceManual
	}

	kw := model.UserKeyword{
		Keyword:    keyword,
		Category:   category,
		Weight:     model.ClampWeight(weight),
		Provenance: provenance,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO user_keywords (keyword, category, weight, provenance, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING id, created_at`,
		kw.Keyword, string(kw.Category), kw.Weight, kw.Provenance,
	).Scan(&kw.ID, &kw.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add keyword: %w", err)
	}
	return &kw, nil
}

// UpdateKeywordWeight rewrites a keyword's weight (clamped) and provenance.
func (s *Store) UpdateKeywordWeight(ctx context.Context, id int64, weight float64, provenance string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE user_keywords SET weight = $1, provenance = $2 WHERE id = $3`,
		model.ClampWeight(weight), provenance, id,
	)
	if err != nil {
		return fmt.Errorf("update keyword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteKeyword removes a keyword. Keywords are never auto-deleted; this is
// the explicit user action.
func (s *Store) DeleteKeyword(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_keywords WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete keyword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
