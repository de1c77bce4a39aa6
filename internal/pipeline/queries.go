package pipeline

import (
	"strings"

	"jobscout/aggregator-service/internal/model"
)

// maxSearchQueries caps the query list sent to the adapters; every extra
// query costs quota on every provider.
const maxSearchQueries = 12

// defaultSearchQueries are the base job-title queries used on every run.
// The first few are what the scrape-sensitive providers see, so the most
// important queries come first.
var defaultSearchQueries = []string{
	"product manager",
	"analyst",
	"data analyst",
	"product analyst",
	"business analyst",
	"associate product manager",
	"insight analyst",
	"junior product manager",
	"senior analyst",
}

// roleKeywords are boost keywords that denote a job role and are therefore
// worth issuing as search queries. Skill keywords (sql, python, tableau…)
// are scoring signals only; searching for "sql" returns noise.
var roleKeywords = map[string]struct{}{
	"analyst":                   {},
	"data analyst":              {},
	"product analyst":           {},
	"business analyst":          {},
	"insight analyst":           {},
	"product manager":           {},
	"associate product manager": {},
	"junior product manager":    {},
}

// BuildSearchQueries combines the default job-title queries with any
// role-type boost keywords the user tracks, each suffixed with the search
// location, capped at maxSearchQueries.
func BuildSearchQueries(keywords []model.UserKeyword, location string) []string {
	queries := make([]string, 0, maxSearchQueries)
	seen := make(map[string]struct{})

	add := func(q string) {
		if _, ok := seen[q]; ok {
			return
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}

	for _, base := range defaultSearchQueries {
		add(base + " " + location)
	}

	for _, kw := range keywords {
		if kw.Category != model.CategoryBoost {
			continue
		}
		if _, ok := roleKeywords[strings.ToLower(kw.Keyword)]; ok {
			add(kw.Keyword + " " + location)
		}
	}

	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}
	return queries
}
