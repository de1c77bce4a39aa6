package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jobscout/aggregator-service/internal/scoring"
)

// Filter setting keys as stored in the filter_settings table.
const (
	settingMinSalary        = "min_salary"
	settingMaxExperience    = "max_experience_years"
	settingTitleMustContain = "title_must_contain"
	settingTitleExclude     = "title_exclude"
	settingContractTerms    = "contract_keywords"
	settingLanguageExclude  = "language_exclude"
)

// LoadFilters reads the filter configuration snapshot for one run. Every
// setting that is missing or holds unparseable JSON silently keeps its
// built-in default: a broken settings row must never sink a run.
func (s *Store) LoadFilters(ctx context.Context) (scoring.FilterConfig, error) {
	cfg := scoring.DefaultFilters()

	rows, err := s.pool.Query(ctx, `SELECT key, value FROM filter_settings`)
	if err != nil {
		return cfg, fmt.Errorf("query filter settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return cfg, fmt.Errorf("scan filter setting: %w", err)
		}
		applySetting(&cfg, key, value)
	}
	return cfg, rows.Err()
}

func applySetting(cfg *scoring.FilterConfig, key, value string) {
	switch key {
	case settingMinSalary:
		var v int
		if json.Unmarshal([]byte(value), &v) == nil && v > 0 {
			cfg.MinSalary = v
		}
	case settingMaxExperience:
		var v int
		if json.Unmarshal([]byte(value), &v) == nil && v > 0 {
			cfg.MaxExperienceYears = v
		}
	case settingTitleMustContain:
		if v := decodeStringsStrict(value); v != nil {
			cfg.TitleMustContain = v
		}
	case settingTitleExclude:
		if v := decodeStringsStrict(value); v != nil {
			cfg.TitleExclude = v
		}
	case settingContractTerms:
		if v := decodeStringsStrict(value); v != nil {
			cfg.ContractTerms = v
		}
	case settingLanguageExclude:
		if v := decodeStringsStrict(value); v != nil {
			cfg.LanguageExclude = v
		}
	}
}

// decodeStringsStrict returns nil (keep default) on malformed JSON, unlike
// decodeStrings which falls back to empty.
func decodeStringsStrict(raw string) []string {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// SetFilter upserts one filter setting as JSON.
func (s *Store) SetFilter(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode filter setting %q: %w", key, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO filter_settings (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("set filter setting %q: %w", key, err)
	}
	return nil
}

// ResetFilters deletes all stored settings so the defaults apply again.
func (s *Store) ResetFilters(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM filter_settings`); err != nil {
		return fmt.Errorf("reset filter settings: %w", err)
	}
	return nil
}
