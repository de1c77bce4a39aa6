// Package model defines shared data structures for the aggregator service.
package model

import (
	"fmt"
	"time"
)

// Source identifies the provider a posting came from. Values mirror the
// source column stored on each job row.
type Source string

const (
	SourceAdzuna     Source = "adzuna"     // aggregator API
	SourceReed       Source = "reed"       // regional job-board API
	SourceLinkedIn   Source = "linkedin"   // public HTML listing scrape
	SourceSerpAPI    Source = "serpapi"    // structured search API (Google Jobs)
	SourceFeedBridge Source = "feedbridge" // RSS bridge (X/Twitter)
	SourceJungle     Source = "jungle"     // Algolia-backed board (WTTJ)
)

// ParseSource converts a raw string to a Source, returning an error for
// unknown values.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	switch src {
	case SourceAdzuna, SourceReed, SourceLinkedIn, SourceSerpAPI, SourceFeedBridge, SourceJungle:
		return src, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// UnknownCompany is the sentinel used when a provider omits the company name.
const UnknownCompany = "Unknown"

// JobPosting is a normalised posting produced by a source adapter. It lives
// only for the duration of one pipeline run; surviving postings become
// JobRecords.
//
// Title and Source are always non-empty; Company defaults to UnknownCompany.
type JobPosting struct {
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	URL           string `json:"url"`
	Source        Source `json:"source"`
	Salary        string `json:"salary"`      // free text, e.g. "£45,000 - £55,000"
	Description   string `json:"description"` // truncated snippet
	PostedDate    string `json:"postedDate"`  // ISO date or empty
	ProviderJobID string `json:"providerJobId,omitempty"`
}

// HardRejectScore is the sentinel meaning "hard-rejected, never persist".
// It sorts below every legitimate score.
const HardRejectScore = -99

// ScoredPosting is a JobPosting plus the scorer's verdict.
type ScoredPosting struct {
	JobPosting

	// MatchScore is HardRejectScore when any disqualifying predicate fired.
	MatchScore   float64  `json:"matchScore"`
	MatchTags    []string `json:"matchTags"`
	ExperienceOK bool     `json:"experienceOk"`
}

// HardRejected reports whether the posting was terminally rejected by a
// hard filter.
func (p ScoredPosting) HardRejected() bool { return p.MatchScore <= HardRejectScore }

// JobRecord mirrors a row of the jobs table.
type JobRecord struct {
	ID              int64
	ProviderJobID   string
	Source          Source
	UniqueKey       string // cross-run dedup key, unique across the store
	Title           string
	Company         string
	Location        string
	Salary          string
	URL             string
	Description     string
	PostedDate      string
	MatchScore      float64
	MatchTags       []string
	ExperienceOK    bool
	SearchSessionID int64
	FirstSeenAt     time.Time
}

// Posting reconstructs the transient posting form of a stored record,
// for re-running the scorer against updated keywords or filters.
func (r JobRecord) Posting() JobPosting {
	return JobPosting{
		Title:         r.Title,
		Company:       r.Company,
		Location:      r.Location,
		URL:           r.URL,
		Source:        r.Source,
		Salary:        r.Salary,
		Description:   r.Description,
		PostedDate:    r.PostedDate,
		ProviderJobID: r.ProviderJobID,
	}
}

// SearchSession mirrors a row of the search_sessions table. One row per
// pipeline run; TotalResults is finalised once and never touched again.
type SearchSession struct {
	ID           int64
	Keywords     []string // boost keywords the run searched with
	Sources      []string // providers that contributed at least one posting
	TotalResults int      // newly stored records
	CreatedAt    time.Time
}

// KeywordCategory says whether a keyword adds to or subtracts from scores.
type KeywordCategory string

const (
	CategoryBoost   KeywordCategory = "boost"
	CategoryExclude KeywordCategory = "exclude"
)

// ParseCategory converts a raw string to a KeywordCategory.
func ParseCategory(s string) (KeywordCategory, error) {
	c := KeywordCategory(s)
	switch c {
	case CategoryBoost, CategoryExclude:
		return c, nil
	}
	return "", fmt.Errorf("unknown keyword category %q", s)
}

// Keyword provenance values.
const (
	ProvenanceManual  = "manual"
	ProvenanceResume  = "resume"
	ProvenanceLearned = "learned"
)

// Weight bounds for user keywords. Weights are clamped on every write.
const (
	MinKeywordWeight = 0.1
	MaxKeywordWeight = 5.0
)

// ClampWeight forces w into [MinKeywordWeight, MaxKeywordWeight].
func ClampWeight(w float64) float64 {
	if w < MinKeywordWeight {
		return MinKeywordWeight
	}
	if w > MaxKeywordWeight {
		return MaxKeywordWeight
	}
	return w
}

// UserKeyword mirrors a row of the user_keywords table.
type UserKeyword struct {
	ID         int64
	Keyword    string
	Category   KeywordCategory
	Weight     float64
	Provenance string // manual / resume / learned
	CreatedAt  time.Time
}

// ApplicationStatus is the user's disposition toward a stored job.
type ApplicationStatus string

const (
	StatusInterested    ApplicationStatus = "interested"
	StatusApplied       ApplicationStatus = "applied"
	StatusInterview     ApplicationStatus = "interview"
	StatusOffer         ApplicationStatus = "offer"
	StatusRejected      ApplicationStatus = "rejected"
	StatusNotInterested ApplicationStatus = "not_interested"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case StatusInterested, StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusNotInterested:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsPositive reports whether the status counts as a positive learning signal.
func (s ApplicationStatus) IsPositive() bool {
	return s == StatusApplied || s == StatusInterview || s == StatusOffer
}

// JobApplication mirrors a row of the job_applications table.
type JobApplication struct {
	ID          int64
	JobID       int64
	Status      ApplicationStatus
	AppliedDate *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplicationFeedback mirrors a row of the application_feedback table.
// KeywordsMentioned is the user's explicit list of relevant keywords.
type ApplicationFeedback struct {
	ID                int64
	ApplicationID     int64
	FeedbackType      string
	FeedbackText      string
	KeywordsMentioned []string
	CreatedAt         time.Time
}

// RunSummary is returned by the pipeline entry point.
type RunSummary struct {
	SessionID    int64 `json:"sessionId"`
	NewCount     int   `json:"newCount"`
	TotalFetched int   `json:"totalFetched"`
}
