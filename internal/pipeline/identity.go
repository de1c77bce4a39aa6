package pipeline

import (
	"regexp"
	"strings"

	"jobscout/aggregator-service/internal/model"
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// fingerprintLen / fingerprintMin bound the description prefix used as a
// duplicate signal. Below fingerprintMin the text is too short to
// fingerprint reliably and identity keys are the only check.
const (
	fingerprintLen = 200
	fingerprintMin = 50
)

// normalizeToken lowercases and strips everything non-alphanumeric, so
// cosmetic punctuation and case differences never create distinct
// identities.
func normalizeToken(s string) string {
	return nonAlnumPattern.ReplaceAllString(strings.ToLower(s), "")
}

// IdentityKey recognises "the same posting" across sources when no shared
// id exists: the normalised company+title pair. The same listing syndicated
// to two boards collides here regardless of which board it came from.
func IdentityKey(company, title string) string {
	return normalizeToken(company) + "_" + normalizeToken(title)
}

// UniqueKey is the cross-run persistence key, stable across runs for the
// same posting: source plus the provider's id when one exists, otherwise
// source plus the normalised company+title fallback.
func UniqueKey(p model.JobPosting) string {
	if p.ProviderJobID != "" {
		return string(p.Source) + "_" + p.ProviderJobID
	}
	return string(p.Source) + "_" + normalizeToken(p.Company) + "_" + normalizeToken(p.Title)
}

// Fingerprint derives the content fingerprint of a description: the first
// fingerprintLen characters, lowercased with whitespace collapsed. Returns
// "" when the normalised text is shorter than fingerprintMin.
func Fingerprint(description string) string {
	fp := whitespacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(description)), " ")
	if len(fp) > fingerprintLen {
		fp = fp[:fingerprintLen]
	}
	if len(fp) < fingerprintMin {
		return ""
	}
	return fp
}
