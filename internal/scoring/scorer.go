package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"jobscout/aggregator-service/internal/model"
)

// Contract-role patterns checked on top of the configured term list.
var (
	contractWordPattern    = regexp.MustCompile(`\b(contract|contractor|ftc)\b`)
	monthContractPattern   = regexp.MustCompile(`\d+[\s-]?months?\s*(contract|ftc|fixed)`)
	durationPattern        = regexp.MustCompile(`duration[:\s]+\d+\s*months?`)
	monthEngagementPattern = regexp.MustCompile(`\d+[\s-]?months?\s*(role|position|assignment|placement|engagement)`)

	experienceYearsPattern = regexp.MustCompile(`(\d+)\+?\s*years?`)
)

// Strong AI signals worth +2; the weaker " ai " token only scores +1.
var strongAITerms = []string{"genai", "generative ai", "llm", "agentic"}

// Score applies the hard filters and, if none trip, computes the weighted
// relevance score for one posting.
//
// Hard filters run in a fixed order (stated salary below minimum, contract
// role, non-English/Chinese language requirement, over-experience) and each
// short-circuits with MatchScore = HardRejectScore, a single explanatory tag
// and ExperienceOK = false. The sentinel is deliberately far below any
// additive score so "never persist" is trivially distinguishable.
func Score(posting model.JobPosting, boosts, excludes []WeightedKeyword, cfg FilterConfig) model.ScoredPosting {
	text := strings.ToLower(posting.Title + " " + posting.Description + " " + posting.Salary)

	if salaryBelowMinimum(text, cfg.MinSalary) {
		return hardReject(posting, fmt.Sprintf("❌salary <£%dk", cfg.MinSalary/1000))
	}
	if isContractRole(text, cfg.ContractTerms) {
		return hardReject(posting, "❌contract")
	}
	if requiresOtherLanguage(text, cfg.LanguageExclude) {
		return hardReject(posting, "❌language requirement")
	}
	if exceedsMaxExperience(text, cfg.MaxExperienceYears) {
		return hardReject(posting, fmt.Sprintf("❌>%dyr experience", cfg.MaxExperienceYears))
	}

	score := 0.0
	tags := []string{}
	experienceOK := true

	for _, kw := range boosts {
		if strings.Contains(text, strings.ToLower(kw.Keyword)) {
			score += kw.Weight
			tags = append(tags, "⭐"+kw.Keyword)
		}
	}

	// Exclude keywords subtract but do not hard-reject; they are warnings.
	for _, kw := range excludes {
		if strings.Contains(text, strings.ToLower(kw.Keyword)) {
			score -= kw.Weight
			tags = append(tags, "⚠️"+kw.Keyword)
			experienceOK = false
		}
	}

	if aiBonus := scoreAISignal(text); aiBonus > 0 {
		score += aiBonus
		tags = append(tags, "🤖AI")
	}

	// Each stated experience requirement within the ceiling is a small plus:
	// a junior-friendly posting stating "2 years" reads better than silence.
	for _, m := range experienceYearsPattern.FindAllStringSubmatch(text, -1) {
		if years, err := strconv.Atoi(m[1]); err == nil && years <= cfg.MaxExperienceYears {
			score++
		}
	}

	return model.ScoredPosting{
		JobPosting:   posting,
		MatchScore:   math.Round(score*100) / 100,
		MatchTags:    tags,
		ExperienceOK: experienceOK,
	}
}

func hardReject(posting model.JobPosting, tag string) model.ScoredPosting {
	return model.ScoredPosting{
		JobPosting:   posting,
		MatchScore:   model.HardRejectScore,
		MatchTags:    []string{tag},
		ExperienceOK: false,
	}
}

// isContractRole reports whether text reads like a contract/temp/fixed-term
// posting, via the configured term list plus regex forms for "N month
// contract", "duration: N months" and "N month role/assignment".
func isContractRole(text string, contractTerms []string) bool {
	for _, term := range contractTerms {
		if term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return contractWordPattern.MatchString(text) ||
		monthContractPattern.MatchString(text) ||
		durationPattern.MatchString(text) ||
		monthEngagementPattern.MatchString(text)
}

// requiresOtherLanguage reports whether the posting requires a language
// other than English or Chinese.
func requiresOtherLanguage(text string, languageExclude []string) bool {
	for _, lang := range languageExclude {
		if lang == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(lang)) {
			return true
		}
	}
	return false
}

// exceedsMaxExperience reports whether any stated "N years" / "N+ years"
// requirement is above the ceiling.
func exceedsMaxExperience(text string, maxYears int) bool {
	for _, m := range experienceYearsPattern.FindAllStringSubmatch(text, -1) {
		if years, err := strconv.Atoi(m[1]); err == nil && years > maxYears {
			return true
		}
	}
	return false
}

// scoreAISignal returns 2 for a strong AI term, 1 for a weak one, 0 otherwise.
// AI is a bonus signal, never a requirement.
func scoreAISignal(text string) float64 {
	for _, term := range strongAITerms {
		if strings.Contains(text, term) {
			return 2
		}
	}
	if strings.Contains(" "+text+" ", " ai ") || strings.Contains(text, "artificial intelligence") {
		return 1
	}
	return 0
}
