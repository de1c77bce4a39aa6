// Package store provides the PostgreSQL repositories for jobs, sessions,
// keywords, applications and filter settings.
//
// It is transport-agnostic: used by the pipeline, the learner and whatever
// outer layer invokes them.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the connection pool shared by all repositories.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = fmt.Errorf("record not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// decodeStrings parses a JSON string-array column. Malformed or empty
// values fall back to an empty slice rather than propagating a parse error.
func decodeStrings(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}
