// Package scoring implements the hard-filter and relevance scorer applied to
// every normalised posting before it is persisted.
package scoring

// FilterConfig is a per-run snapshot of the mutable filter settings. It is
// loaded from the filter_settings table once per run and passed into Score
// explicitly, so the scorer stays a pure function of (posting, keywords,
// config) even when settings change between runs.
type FilterConfig struct {
	MinSalary          int
	MaxExperienceYears int
	TitleMustContain   []string
	TitleExclude       []string
	ContractTerms      []string
	LanguageExclude    []string
}

// DefaultFilters returns the built-in filter values, used when a setting is
// missing from the store or its stored JSON cannot be parsed.
func DefaultFilters() FilterConfig {
	return FilterConfig{
		MinSalary:          45000,
		MaxExperienceYears: 5,
		TitleMustContain:   []string{"analyst", "product manager"},
		TitleExclude: []string{
			// roles
			"scientist", "data scientist", "research scientist",
			"engineer", "software engineer", "backend engineer", "frontend engineer",
			"devops engineer", "qa engineer", "test engineer",
			"c++ developer", "java developer",
			"ios developer", "android developer",
			"accountant", "solicitor", "nurse", "warehouse", "driver",
			// seniority
			"director", "vp", "vice president", "head of", "chief",
			"principal", "staff", "distinguished", "partner",
			// too junior
			"intern", "internship", "graduate programme", "graduate program",
			"graduate scheme", "entry level trainee",
			"apprentice", "apprenticeship", "placement year",
			// stated over-experience
			"6+ years", "7+ years", "8+ years", "10+ years",
			"6 years", "7 years", "8 years", "10 years", "12 years", "15 years",
			// analyst roles with associate/junior/intern prefix
			"associate analyst", "junior analyst", "intern analyst",
			"associate data analyst", "junior data analyst",
			"associate product analyst", "junior product analyst",
			"associate business analyst", "junior business analyst",
			"associate insight analyst", "junior insight analyst",
			// training / bootcamp posts, not real jobs
			"it ", "it analyst", "summer",
			"job guarantee", "bootcamp", "training programme", "course",
		},
		ContractTerms: []string{
			"contract", "contractor", "freelance", "freelancer",
			"fixed term", "fixed-term", "temporary", "temp ",
			"ftc", " month ftc", "month contract",
			"6 month", "12 month", "3 month", "9 month",
			"maternity cover", "paternity cover",
			"interim", "inside ir35", "outside ir35", "day rate", "ir35",
		},
		LanguageExclude: []string{
			"french", "german", "spanish", "italian", "portuguese",
			"dutch", "japanese", "korean", "arabic", "russian",
			"turkish", "polish", "hindi", "swedish", "norwegian",
			"danish", "finnish", "greek", "hebrew", "czech",
			"hungarian", "romanian", "thai", "vietnamese",
		},
	}
}

// WeightedKeyword is one tracked keyword with its current weight, as read
// from the user_keywords table at the start of a run.
type WeightedKeyword struct {
	Keyword string
	Weight  float64
}
