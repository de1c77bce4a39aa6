package store

import (
	"testing"

	"jobscout/aggregator-service/internal/scoring"
)

// ── JSON helpers ──────────────────────────────────────────────────────────

// decodeStrings tolerates malformed and empty input.
func TestDecodeStrings(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{`["a","b"]`, []string{"a", "b"}},
		{`[]`, []string{}},
		{``, []string{}},
		{`not json`, []string{}},
		{`{"a":1}`, []string{}},
	}
	for _, c := range cases {
		got := decodeStrings(c.raw)
		if len(got) != len(c.want) {
			t.Errorf("decodeStrings(%q) = %v, want %v", c.raw, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("decodeStrings(%q)[%d] = %q, want %q", c.raw, i, got[i], c.want[i])
			}
		}
	}
}

// encodeStrings never produces SQL NULL: nil encodes as the empty array.
func TestEncodeStrings_NilAsEmptyArray(t *testing.T) {
	if got := encodeStrings(nil); got != "[]" {
		t.Errorf("encodeStrings(nil) = %q, want []", got)
	}
	if got := encodeStrings([]string{"x"}); got != `["x"]` {
		t.Errorf("encodeStrings = %q, want [\"x\"]", got)
	}
}

// ── Filter settings ───────────────────────────────────────────────────────

// A valid stored value overrides the default for its key only.
func TestApplySetting_Overrides(t *testing.T) {
	cfg := scoring.DefaultFilters()

	applySetting(&cfg, settingMinSalary, `60000`)
	applySetting(&cfg, settingMaxExperience, `8`)
	applySetting(&cfg, settingTitleMustContain, `["consultant"]`)

	if cfg.MinSalary != 60000 {
		t.Errorf("MinSalary = %d, want 60000", cfg.MinSalary)
	}
	if cfg.MaxExperienceYears != 8 {
		t.Errorf("MaxExperienceYears = %d, want 8", cfg.MaxExperienceYears)
	}
	if len(cfg.TitleMustContain) != 1 || cfg.TitleMustContain[0] != "consultant" {
		t.Errorf("TitleMustContain = %v, want [consultant]", cfg.TitleMustContain)
	}
	// Untouched keys keep their defaults.
	if len(cfg.ContractTerms) == 0 {
		t.Error("ContractTerms default lost")
	}
}

// Malformed or non-positive stored values keep the defaults.
func TestApplySetting_MalformedKeepsDefault(t *testing.T) {
	def := scoring.DefaultFilters()
	cfg := scoring.DefaultFilters()

	applySetting(&cfg, settingMinSalary, `"not a number"`)
	applySetting(&cfg, settingMinSalary, `-5`)
	applySetting(&cfg, settingTitleExclude, `{broken`)
	applySetting(&cfg, settingLanguageExclude, `42`)

	if cfg.MinSalary != def.MinSalary {
		t.Errorf("MinSalary = %d, want default %d", cfg.MinSalary, def.MinSalary)
	}
	if len(cfg.TitleExclude) != len(def.TitleExclude) {
		t.Errorf("TitleExclude length = %d, want default %d", len(cfg.TitleExclude), len(def.TitleExclude))
	}
	if len(cfg.LanguageExclude) != len(def.LanguageExclude) {
		t.Errorf("LanguageExclude length = %d, want default %d", len(cfg.LanguageExclude), len(def.LanguageExclude))
	}
}

// An explicitly stored empty list is honoured, not confused with malformed.
func TestApplySetting_EmptyListHonoured(t *testing.T) {
	cfg := scoring.DefaultFilters()
	applySetting(&cfg, settingTitleMustContain, `[]`)

	if len(cfg.TitleMustContain) != 0 {
		t.Errorf("TitleMustContain = %v, want empty", cfg.TitleMustContain)
	}
}

// Unknown keys are ignored.
func TestApplySetting_UnknownKeyIgnored(t *testing.T) {
	def := scoring.DefaultFilters()
	cfg := scoring.DefaultFilters()
	applySetting(&cfg, "mystery_key", `123`)

	if cfg.MinSalary != def.MinSalary || cfg.MaxExperienceYears != def.MaxExperienceYears {
		t.Error("unknown key mutated the config")
	}
}
