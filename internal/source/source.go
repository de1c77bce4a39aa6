// Package source implements the per-provider job posting adapters.
//
// Each adapter turns one provider's response format into normalised
// model.JobPosting values. Adapters are independent: a failed query is
// logged and skipped, never propagated, so one bad query cannot abort the
// remaining queries for that provider. An adapter with missing credentials
// returns no postings and no error.
package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"jobscout/aggregator-service/internal/model"
)

// Fetcher is implemented by every provider adapter.
type Fetcher interface {
	Source() model.Source
	// Fetch runs the given search queries against the provider and returns
	// normalised postings. Per-query failures are swallowed; a non-nil error
	// means the whole provider failed.
	Fetch(ctx context.Context, queries []string) ([]model.JobPosting, error)
}

const (
	httpTimeout      = 15 * time.Second
	maxPerQuery      = 50
	descriptionLimit = 500
)

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// stripHTML removes markup and collapses surrounding whitespace.
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// truncate cuts s to at most n bytes. Provider descriptions are stored as
// snippets, not full documents.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// orUnknown substitutes the company sentinel for an empty provider value.
func orUnknown(company string) string {
	if strings.TrimSpace(company) == "" {
		return model.UnknownCompany
	}
	return company
}

// formatSalaryGBP renders a provider's numeric salary range as the free-text
// form stored on postings: "£45,000 - £55,000" or "From £45,000".
func formatSalaryGBP(min, max float64) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("£%s - £%s", groupThousands(int(min)), groupThousands(int(max)))
	case min > 0:
		return fmt.Sprintf("From £%s", groupThousands(int(min)))
	default:
		return ""
	}
}

func groupThousands(n int) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
