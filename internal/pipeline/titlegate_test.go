package pipeline_test

import (
	"testing"

	"jobscout/aggregator-service/internal/pipeline"
)

var (
	mustContain = []string{"analyst", "product manager"}
	exclude     = []string{"engineer", "director", "intern"}
)

// A title containing a must-contain term and no exclude term passes.
func TestPassesTitleGate_Passes(t *testing.T) {
	titles := []string{
		"Data Analyst",
		"Senior Product Manager",
		"PRODUCT MANAGER - Fintech",
		"Insight analyst (hybrid)",
	}
	for _, title := range titles {
		if !pipeline.PassesTitleGate(title, mustContain, exclude) {
			t.Errorf("PassesTitleGate(%q) = false, want true", title)
		}
	}
}

// A title missing every must-contain term fails.
func TestPassesTitleGate_RequiresMustContain(t *testing.T) {
	titles := []string{"Software Developer", "Marketing Lead", "Accountant"}
	for _, title := range titles {
		if pipeline.PassesTitleGate(title, mustContain, exclude) {
			t.Errorf("PassesTitleGate(%q) = true, want false", title)
		}
	}
}

// An exclude term fails the title even when a must-contain term is present.
func TestPassesTitleGate_ExcludeWins(t *testing.T) {
	titles := []string{
		"Analyst Engineer",
		"Director of Product Manager Excellence",
		"Product Manager Intern",
	}
	for _, title := range titles {
		if pipeline.PassesTitleGate(title, mustContain, exclude) {
			t.Errorf("PassesTitleGate(%q) = true, want false", title)
		}
	}
}

// Matching is case-insensitive on both lists.
func TestPassesTitleGate_CaseInsensitive(t *testing.T) {
	if !pipeline.PassesTitleGate("DATA ANALYST", mustContain, exclude) {
		t.Error("uppercase title should pass")
	}
	if pipeline.PassesTitleGate("data ENGINEER analyst", mustContain, exclude) {
		t.Error("uppercase exclude term should still fail the title")
	}
}

// An empty must-contain list admits any title not excluded.
func TestPassesTitleGate_EmptyMustContain(t *testing.T) {
	if !pipeline.PassesTitleGate("Anything At All", nil, exclude) {
		t.Error("empty mustContain should admit non-excluded titles")
	}
	if pipeline.PassesTitleGate("Engineer", nil, exclude) {
		t.Error("exclude list still applies with empty mustContain")
	}
}

// Empty strings in either list are ignored rather than matching everything.
func TestPassesTitleGate_IgnoresEmptyTerms(t *testing.T) {
	if pipeline.PassesTitleGate("Accountant", []string{""}, nil) {
		t.Error("empty must-contain term must not match every title")
	}
	if !pipeline.PassesTitleGate("Data Analyst", mustContain, []string{""}) {
		t.Error("empty exclude term must not exclude every title")
	}
}
