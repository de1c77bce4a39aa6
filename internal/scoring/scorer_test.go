package scoring_test

import (
	"testing"

	"jobscout/aggregator-service/internal/model"
	"jobscout/aggregator-service/internal/scoring"
)

func posting(title, desc, salary string) model.JobPosting {
	return model.JobPosting{
		Title:       title,
		Company:     "Acme",
		Source:      model.SourceAdzuna,
		Salary:      salary,
		Description: desc,
	}
}

// ── Hard filters ──────────────────────────────────────────────────────────

// A stated salary range whose maximum is under the minimum must hard-reject
// with the salary tag.
func TestScore_SalaryBelowMinimumRejects(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Data Analyst", "Great team.", "£30,000 - £38,000"), nil, nil, cfg)

	if got.MatchScore != model.HardRejectScore {
		t.Fatalf("MatchScore = %v, want %v", got.MatchScore, model.HardRejectScore)
	}
	if len(got.MatchTags) != 1 || got.MatchTags[0] != "❌salary <£45k" {
		t.Errorf("MatchTags = %v, want [❌salary <£45k]", got.MatchTags)
	}
	if got.ExperienceOK {
		t.Error("ExperienceOK = true on hard reject, want false")
	}
}

// A range whose maximum clears the minimum passes the salary gate even when
// its lower bound is under the minimum.
func TestScore_SalaryRangeMaxCounts(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Data Analyst", "Great team.", "£40,000 - £48,000"), nil, nil, cfg)

	if got.HardRejected() {
		t.Fatalf("range topping £48k should pass a £45k minimum, got tags %v", got.MatchTags)
	}
}

// A posting stating no salary at all passes the salary gate.
func TestScore_NoSalaryPasses(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Data Analyst", "Competitive package.", ""), nil, nil, cfg)

	if got.HardRejected() {
		t.Fatalf("posting without salary should not hard-reject, got tags %v", got.MatchTags)
	}
}

// Contract-shaped postings hard-reject with the contract tag.
func TestScore_ContractRejects(t *testing.T) {
	cfg := scoring.DefaultFilters()
	cases := []string{
		"12 month contract with possible extension",
		"This is an FTC position",
		"Duration: 6 months",
		"day rate negotiable, outside IR35",
	}
	for _, desc := range cases {
		got := scoring.Score(posting("Data Analyst", desc, ""), nil, nil, cfg)
		if got.MatchScore != model.HardRejectScore || len(got.MatchTags) != 1 || got.MatchTags[0] != "❌contract" {
			t.Errorf("Score(%q) = score %v tags %v, want hard reject with ❌contract", desc, got.MatchScore, got.MatchTags)
		}
	}
}

// The salary filter runs before the contract filter, so a posting tripping
// both carries only the salary tag.
func TestScore_SalaryCheckedBeforeContract(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Data Analyst", "6 month contract", "£30,000"), nil, nil, cfg)

	if len(got.MatchTags) != 1 || got.MatchTags[0] != "❌salary <£45k" {
		t.Errorf("MatchTags = %v, want only the salary tag", got.MatchTags)
	}
}

// A foreign-language requirement hard-rejects with the language tag.
func TestScore_LanguageRequirementRejects(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Data Analyst", "Fluent German required for this role.", ""), nil, nil, cfg)

	if got.MatchScore != model.HardRejectScore || len(got.MatchTags) != 1 || got.MatchTags[0] != "❌language requirement" {
		t.Errorf("score %v tags %v, want hard reject with ❌language requirement", got.MatchScore, got.MatchTags)
	}
}

// A stated experience requirement above the ceiling hard-rejects, tagged
// with the configured ceiling.
func TestScore_OverExperienceRejects(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Data Analyst", "Minimum 7+ years experience in analytics.", ""), nil, nil, cfg)

	if got.MatchScore != model.HardRejectScore || len(got.MatchTags) != 1 || got.MatchTags[0] != "❌>5yr experience" {
		t.Errorf("score %v tags %v, want hard reject with ❌>5yr experience", got.MatchScore, got.MatchTags)
	}
}

// The salary tag reflects a customised minimum, not the default.
func TestScore_SalaryTagUsesConfiguredMinimum(t *testing.T) {
	cfg := scoring.DefaultFilters()
	cfg.MinSalary = 60000
	got := scoring.Score(posting("Data Analyst", "", "£50,000"), nil, nil, cfg)

	if len(got.MatchTags) != 1 || got.MatchTags[0] != "❌salary <£60k" {
		t.Errorf("MatchTags = %v, want [❌salary <£60k]", got.MatchTags)
	}
}

// ── Soft scoring ──────────────────────────────────────────────────────────

// Boost keywords add their weights and tag the posting.
func TestScore_BoostKeywordsAddWeights(t *testing.T) {
	cfg := scoring.DefaultFilters()
	boosts := []scoring.WeightedKeyword{
		{Keyword: "python", Weight: 1.5},
		{Keyword: "sql", Weight: 1.0},
		{Keyword: "tableau", Weight: 2.0}, // absent from the text
	}
	got := scoring.Score(posting("Data Analyst", "Strong Python and SQL skills.", ""), boosts, nil, cfg)

	if got.MatchScore != 2.5 {
		t.Errorf("MatchScore = %v, want 2.5", got.MatchScore)
	}
	want := []string{"⭐python", "⭐sql"}
	if len(got.MatchTags) != len(want) {
		t.Fatalf("MatchTags = %v, want %v", got.MatchTags, want)
	}
	for i, tag := range want {
		if got.MatchTags[i] != tag {
			t.Errorf("MatchTags[%d] = %q, want %q", i, got.MatchTags[i], tag)
		}
	}
	if !got.ExperienceOK {
		t.Error("ExperienceOK = false, want true with no warnings")
	}
}

// Exclude keywords subtract their weights and flag the posting, but never
// hard-reject it.
func TestScore_ExcludeKeywordsWarn(t *testing.T) {
	cfg := scoring.DefaultFilters()
	boosts := []scoring.WeightedKeyword{{Keyword: "analyst", Weight: 1.0}}
	excludes := []scoring.WeightedKeyword{{Keyword: "php", Weight: 2.0}}
	got := scoring.Score(posting("Data Analyst", "Some PHP maintenance involved.", ""), boosts, excludes, cfg)

	if got.HardRejected() {
		t.Fatal("exclude keyword must not hard-reject")
	}
	if got.MatchScore != -1.0 {
		t.Errorf("MatchScore = %v, want -1.0", got.MatchScore)
	}
	if got.ExperienceOK {
		t.Error("ExperienceOK = true, want false when a warning fired")
	}
	found := false
	for _, tag := range got.MatchTags {
		if tag == "⚠️php" {
			found = true
		}
	}
	if !found {
		t.Errorf("MatchTags = %v, want ⚠️php present", got.MatchTags)
	}
}

// Strong AI terms are worth +2 with the AI tag.
func TestScore_StrongAIBonus(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Product Analyst", "Working on generative AI features.", ""), nil, nil, cfg)

	if got.MatchScore != 2 {
		t.Errorf("MatchScore = %v, want 2", got.MatchScore)
	}
	if len(got.MatchTags) != 1 || got.MatchTags[0] != "🤖AI" {
		t.Errorf("MatchTags = %v, want [🤖AI]", got.MatchTags)
	}
}

// A bare "AI" word scores only +1.
func TestScore_WeakAIBonus(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Product Analyst", "You will use AI tools daily.", ""), nil, nil, cfg)

	if got.MatchScore != 1 {
		t.Errorf("MatchScore = %v, want 1", got.MatchScore)
	}
}

// "maintain" contains "ai" but is not an AI signal.
func TestScore_NoAIBonusInsideWords(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Product Analyst", "You will maintain dashboards.", ""), nil, nil, cfg)

	if got.MatchScore != 0 {
		t.Errorf("MatchScore = %v, want 0", got.MatchScore)
	}
}

// Each stated experience figure at or under the ceiling adds one point.
func TestScore_ExperienceWithinCeilingBonus(t *testing.T) {
	cfg := scoring.DefaultFilters()
	got := scoring.Score(posting("Data Analyst", "2 years experience required, ideally 3 years with SQL.", ""), nil, nil, cfg)

	if got.MatchScore != 2 {
		t.Errorf("MatchScore = %v, want 2 (one per in-range experience mention)", got.MatchScore)
	}
}

// Scores are rounded to two decimal places.
func TestScore_RoundedToTwoDecimals(t *testing.T) {
	cfg := scoring.DefaultFilters()
	boosts := []scoring.WeightedKeyword{
		{Keyword: "python", Weight: 1.105},
		{Keyword: "sql", Weight: 1.101},
	}
	got := scoring.Score(posting("Data Analyst", "python sql", ""), boosts, nil, cfg)

	if got.MatchScore != 2.21 {
		t.Errorf("MatchScore = %v, want 2.21", got.MatchScore)
	}
}
