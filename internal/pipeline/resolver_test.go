package pipeline_test

import (
	"strings"
	"testing"

	"jobscout/aggregator-service/internal/model"
	"jobscout/aggregator-service/internal/pipeline"
)

func adzunaPosting(company, title string) model.JobPosting {
	return model.JobPosting{Source: model.SourceAdzuna, Company: company, Title: title}
}

// longDesc builds a description long enough to fingerprint.
func longDesc(seed string) string {
	return seed + " " + strings.Repeat("responsibilities include reporting and analysis ", 3)
}

// Distinct postings all survive, in arrival order.
func TestResolve_KeepsDistinctPostings(t *testing.T) {
	batch := []model.JobPosting{
		adzunaPosting("Acme", "Data Analyst"),
		adzunaPosting("Globex", "Data Analyst"),
		adzunaPosting("Acme", "Product Manager"),
	}
	resolved, dups := pipeline.Resolve(batch)

	if dups != 0 {
		t.Errorf("duplicates = %d, want 0", dups)
	}
	if len(resolved) != 3 {
		t.Fatalf("len(resolved) = %d, want 3", len(resolved))
	}
	for i := range batch {
		if resolved[i].Company != batch[i].Company || resolved[i].Title != batch[i].Title {
			t.Errorf("resolved[%d] = %s/%s, arrival order not preserved", i, resolved[i].Company, resolved[i].Title)
		}
	}
}

// The same company+title from two different sources is one posting.
func TestResolve_CollapsesAcrossSources(t *testing.T) {
	batch := []model.JobPosting{
		{Source: model.SourceAdzuna, Company: "Acme", Title: "Data Analyst"},
		{Source: model.SourceLinkedIn, Company: "Acme", Title: "Data Analyst"},
	}
	resolved, dups := pipeline.Resolve(batch)

	if len(resolved) != 1 || dups != 1 {
		t.Fatalf("resolved=%d dups=%d, want 1 and 1", len(resolved), dups)
	}
	if resolved[0].Source != model.SourceAdzuna {
		t.Errorf("kept source = %s, want first arrival kept", resolved[0].Source)
	}
}

// A later duplicate carrying a salary the kept posting lacks replaces it
// in place, keeping the original position.
func TestResolve_EnrichmentReplaces(t *testing.T) {
	first := adzunaPosting("Acme", "Data Analyst")
	richer := model.JobPosting{
		Source:  model.SourceReed,
		Company: "Acme",
		Title:   "Data Analyst",
		Salary:  "£50,000",
	}
	batch := []model.JobPosting{first, adzunaPosting("Globex", "Analyst"), richer}
	resolved, dups := pipeline.Resolve(batch)

	if len(resolved) != 2 || dups != 1 {
		t.Fatalf("resolved=%d dups=%d, want 2 and 1", len(resolved), dups)
	}
	if resolved[0].Salary != "£50,000" || resolved[0].Source != model.SourceReed {
		t.Errorf("resolved[0] = %+v, want the enriched arrival in first position", resolved[0])
	}
}

// A later duplicate that adds nothing leaves the kept posting untouched.
func TestResolve_NonEnrichingDuplicateDropped(t *testing.T) {
	kept := model.JobPosting{
		Source:      model.SourceAdzuna,
		Company:     "Acme",
		Title:       "Data Analyst",
		Salary:      "£48,000",
		Description: longDesc("original"),
	}
	dup := model.JobPosting{
		Source:  model.SourceReed,
		Company: "Acme",
		Title:   "Data Analyst",
		Salary:  "£55,000", // kept already has a salary
	}
	resolved, dups := pipeline.Resolve([]model.JobPosting{kept, dup})

	if len(resolved) != 1 || dups != 1 {
		t.Fatalf("resolved=%d dups=%d, want 1 and 1", len(resolved), dups)
	}
	if resolved[0].Salary != "£48,000" {
		t.Errorf("kept salary = %q, want the original retained", resolved[0].Salary)
	}
}

// Identical descriptions under different titles are fingerprint duplicates
// and are dropped outright.
func TestResolve_FingerprintDuplicateDropped(t *testing.T) {
	desc := longDesc("same listing different title")
	batch := []model.JobPosting{
		{Source: model.SourceAdzuna, Company: "Acme", Title: "Data Analyst", Description: desc},
		{Source: model.SourceSerpAPI, Company: "Acme", Title: "Analyst, Data", Description: desc},
	}
	resolved, dups := pipeline.Resolve(batch)

	if len(resolved) != 1 || dups != 1 {
		t.Fatalf("resolved=%d dups=%d, want 1 and 1", len(resolved), dups)
	}
	if resolved[0].Title != "Data Analyst" {
		t.Errorf("kept title = %q, want first arrival", resolved[0].Title)
	}
}

// Short descriptions never fingerprint, so similar snippets under distinct
// identities both survive.
func TestResolve_ShortDescriptionsNotFingerprinted(t *testing.T) {
	batch := []model.JobPosting{
		{Source: model.SourceAdzuna, Company: "Acme", Title: "Data Analyst", Description: "Apply now."},
		{Source: model.SourceAdzuna, Company: "Globex", Title: "Data Analyst", Description: "Apply now."},
	}
	resolved, dups := pipeline.Resolve(batch)

	if len(resolved) != 2 || dups != 0 {
		t.Errorf("resolved=%d dups=%d, want 2 and 0", len(resolved), dups)
	}
}

// Resolving an already-resolved batch removes nothing.
func TestResolve_Idempotent(t *testing.T) {
	batch := []model.JobPosting{
		{Source: model.SourceAdzuna, Company: "Acme", Title: "Data Analyst", Description: longDesc("a")},
		{Source: model.SourceLinkedIn, Company: "Acme", Title: "Data Analyst"},
		{Source: model.SourceReed, Company: "Globex", Title: "Product Analyst", Salary: "£60,000"},
	}
	once, _ := pipeline.Resolve(batch)
	twice, dups := pipeline.Resolve(once)

	if dups != 0 {
		t.Errorf("second pass removed %d postings, want 0", dups)
	}
	if len(twice) != len(once) {
		t.Errorf("second pass length %d, want %d", len(twice), len(once))
	}
}
