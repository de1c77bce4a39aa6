// Package pipeline turns raw postings from the source adapters into
// deduplicated, scored, persisted job records.
//
// Stages, in order: title gate → intra-batch identity resolution → hard
// filter & scoring → cross-run persistence gate → store.
package pipeline

import (
	"strings"

	"jobscout/aggregator-service/internal/scoring"
)

// PassesTitleGate is the fast pre-filter applied to every posting before it
// is resolved or scored. A title passes only if mustContain is empty or at
// least one of its terms appears (case-insensitive substring), and no
// exclude term appears.
func PassesTitleGate(title string, mustContain, exclude []string) bool {
	t := strings.ToLower(title)

	if len(mustContain) > 0 {
		found := false
		for _, term := range mustContain {
			if term != "" && strings.Contains(t, strings.ToLower(term)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, term := range exclude {
		if term != "" && strings.Contains(t, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// titleGateExclude folds the contract and language term lists into the title
// exclude list. This is a cheap first pass; the scorer re-applies both checks
// against the full description later.
func titleGateExclude(cfg scoring.FilterConfig) []string {
	exclude := make([]string, 0, len(cfg.TitleExclude)+len(cfg.ContractTerms)+len(cfg.LanguageExclude))
	exclude = append(exclude, cfg.TitleExclude...)
	exclude = append(exclude, cfg.ContractTerms...)
	exclude = append(exclude, cfg.LanguageExclude...)
	return exclude
}
