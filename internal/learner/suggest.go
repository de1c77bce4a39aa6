package learner

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"jobscout/aggregator-service/internal/model"
)

const savedKeywordWeight = 0.5 // user-confirmed suggestions start cautious

var notesSplitPattern = regexp.MustCompile(`[,;.\n]+`)

// extractPhrases pulls candidate keywords out of free-text notes: short
// phrases of 2 to 4 meaningful words, plus each meaningful word over 3
// characters on its own.
func extractPhrases(notes string) []string {
	notes = strings.TrimSpace(strings.ToLower(notes))
	if notes == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var phrases []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			phrases = append(phrases, p)
		}
	}

	for _, part := range notesSplitPattern.Split(notes, -1) {
		var meaningful []string
		for _, w := range strings.Fields(strings.TrimSpace(part)) {
			if _, stop := stopwords[w]; !stop && len(w) > 2 {
				meaningful = append(meaningful, w)
			}
		}
		if len(meaningful) == 0 {
			continue
		}
		if len(meaningful) >= 2 && len(meaningful) <= 4 {
			add(strings.Join(meaningful, " "))
		}
		for _, w := range meaningful {
			if len(w) > 3 {
				add(w)
			}
		}
	}
	sort.Strings(phrases)
	return phrases
}

// SuggestFromDismissal proposes exclude keywords from the notes attached to
// a "not interested" action. Nothing is saved; the user confirms which
// suggestions to keep via SaveLearned.
func (l *Learner) SuggestFromDismissal(ctx context.Context, notes string) ([]string, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, nil
	}
	existing, err := l.existingKeywords(ctx)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	for _, phrase := range extractPhrases(notes) {
		if _, ok := existing[phrase]; !ok {
			suggestions = append(suggestions, phrase)
		}
	}
	log.Printf("[learner] Suggested %d exclude keywords from dismissal", len(suggestions))
	return suggestions, nil
}

// SuggestFromApplication proposes boost keywords from a job the user
// applied to: known skills found in its text plus its stored match tags.
func (l *Learner) SuggestFromApplication(ctx context.Context, job model.JobRecord) ([]string, error) {
	existing, err := l.existingKeywords(ctx)
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(job.Title + " " + job.Description)
	seen := make(map[string]struct{})
	var suggestions []string
	add := func(kw string) {
		if _, dup := seen[kw]; dup {
			return
		}
		if _, known := existing[kw]; known {
			return
		}
		seen[kw] = struct{}{}
		suggestions = append(suggestions, kw)
	}

	for _, skill := range techSkills {
		if strings.Contains(text, skill) {
			add(skill)
		}
	}
	for _, skill := range domainSkills {
		if strings.Contains(text, skill) {
			add(skill)
		}
	}
	for _, tag := range job.MatchTags {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if len(tag) > 2 {
			add(tag)
		}
	}

	log.Printf("[learner] Suggested %d boost keywords from application to job %d", len(suggestions), job.ID)
	return suggestions, nil
}

// SaveLearned persists the user-confirmed subset of earlier suggestions.
// Blank, too-short, and already-tracked keywords are skipped silently.
// Returns the keywords actually saved.
func (l *Learner) SaveLearned(ctx context.Context, keywords []string, category model.KeywordCategory) ([]string, error) {
	existing, err := l.existingKeywords(ctx)
	if err != nil {
		return nil, err
	}

	var saved []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if len(kw) < 2 {
			continue
		}
		if _, ok := existing[kw]; ok {
			continue
		}
		if _, err := l.store.AddKeyword(ctx, kw, category, savedKeywordWeight, model.ProvenanceLearned); err != nil {
			return saved, fmt.Errorf("save keyword %q: %w", kw, err)
		}
		existing[kw] = struct{}{}
		saved = append(saved, kw)
	}
	log.Printf("[learner] Saved %d learned %s keywords", len(saved), category)
	return saved, nil
}

func (l *Learner) existingKeywords(ctx context.Context) (map[string]struct{}, error) {
	keywords, err := l.store.ListKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}
	existing := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		existing[strings.ToLower(kw.Keyword)] = struct{}{}
	}
	return existing, nil
}
