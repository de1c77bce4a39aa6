package pipeline_test

import (
	"strings"
	"testing"

	"jobscout/aggregator-service/internal/model"
	"jobscout/aggregator-service/internal/pipeline"
)

// ── Identity key ──────────────────────────────────────────────────────────

// Case and punctuation differences collapse to the same identity.
func TestIdentityKey_NormalizesCaseAndPunctuation(t *testing.T) {
	a := pipeline.IdentityKey("Acme Corp.", "Data Analyst")
	b := pipeline.IdentityKey("acme corp", "DATA-ANALYST")
	if a != b {
		t.Errorf("IdentityKey mismatch: %q vs %q", a, b)
	}
}

// The identity key carries no source, so the same listing from two boards
// collides.
func TestIdentityKey_SourceIndependent(t *testing.T) {
	if pipeline.IdentityKey("Acme", "Analyst") != "acme_analyst" {
		t.Errorf("IdentityKey = %q, want acme_analyst", pipeline.IdentityKey("Acme", "Analyst"))
	}
}

// Different companies with the same title stay distinct.
func TestIdentityKey_DistinctCompanies(t *testing.T) {
	if pipeline.IdentityKey("Acme", "Analyst") == pipeline.IdentityKey("Globex", "Analyst") {
		t.Error("different companies must yield different identities")
	}
}

// ── Unique key ────────────────────────────────────────────────────────────

// With a provider id the unique key is source + id.
func TestUniqueKey_WithProviderID(t *testing.T) {
	p := model.JobPosting{Source: model.SourceAdzuna, ProviderJobID: "12345", Company: "Acme", Title: "Analyst"}
	if got := pipeline.UniqueKey(p); got != "adzuna_12345" {
		t.Errorf("UniqueKey = %q, want adzuna_12345", got)
	}
}

// Without a provider id the unique key falls back to source + normalised
// company + title, so the same fallback posting from two sources stays
// distinct across runs.
func TestUniqueKey_FallbackIncludesSource(t *testing.T) {
	a := model.JobPosting{Source: model.SourceLinkedIn, Company: "Acme Corp", Title: "Data Analyst"}
	b := model.JobPosting{Source: model.SourceSerpAPI, Company: "Acme Corp", Title: "Data Analyst"}

	if got := pipeline.UniqueKey(a); got != "linkedin_acmecorp_dataanalyst" {
		t.Errorf("UniqueKey = %q, want linkedin_acmecorp_dataanalyst", got)
	}
	if pipeline.UniqueKey(a) == pipeline.UniqueKey(b) {
		t.Error("fallback unique keys from different sources must differ")
	}
}

// ── Fingerprint ───────────────────────────────────────────────────────────

// The fingerprint is the lowercased, whitespace-collapsed prefix.
func TestFingerprint_NormalizesWhitespaceAndCase(t *testing.T) {
	a := pipeline.Fingerprint("We are looking   for a Data Analyst\nto join our growing team in London.")
	b := pipeline.Fingerprint("we are looking for a data analyst to join our growing team in london.")
	if a != b {
		t.Errorf("fingerprints differ:\n%q\n%q", a, b)
	}
}

// Descriptions under the minimum length yield no fingerprint.
func TestFingerprint_ShortDescriptionEmpty(t *testing.T) {
	if fp := pipeline.Fingerprint("Great job, apply now."); fp != "" {
		t.Errorf("Fingerprint = %q, want empty for short text", fp)
	}
	if fp := pipeline.Fingerprint(""); fp != "" {
		t.Errorf("Fingerprint = %q, want empty for empty text", fp)
	}
}

// Long descriptions are truncated to the fixed prefix length, so listings
// differing only in a trailing boilerplate block still collide.
func TestFingerprint_TruncatesLongDescriptions(t *testing.T) {
	base := strings.Repeat("an analyst role with dashboards and stakeholders ", 10)
	a := pipeline.Fingerprint(base + "Apply via our careers portal.")
	b := pipeline.Fingerprint(base + "Recruiter contact: jobs@acme.example")

	if a == "" || a != b {
		t.Errorf("fingerprints should match on the shared prefix:\n%q\n%q", a, b)
	}
	if len(a) != 200 {
		t.Errorf("fingerprint length = %d, want 200", len(a))
	}
}
