package pipeline

import "jobscout/aggregator-service/internal/model"

// Resolve collapses a batch down to at most one representative per
// real-world posting, preserving arrival order. It returns the reduced
// batch and the number of duplicates removed.
//
// Two keys are tracked. The identity key (company+title) catches the same
// listing syndicated across providers; when a later arrival caries
// information the kept one lacks (salary or description), it replaces the
// kept posting in place, since richness varies by provider even for the literally
// same listing. The content fingerprint catches the same listing posted
// under different titles; fingerprint collisions are treated as certain
// duplicates and dropped outright, never used for enrichment.
//
// Resolve is idempotent: running it on its own output removes nothing.
func Resolve(postings []model.JobPosting) ([]model.JobPosting, int) {
	order := make([]string, 0, len(postings))
	byIdentity := make(map[string]model.JobPosting, len(postings))
	seenFingerprints := make(map[string]struct{}, len(postings))

	duplicates := 0
	for _, p := range postings {
		ik := IdentityKey(p.Company, p.Title)
		fp := Fingerprint(p.Description)

		if kept, ok := byIdentity[ik]; ok {
			if enriches(kept, p) {
				byIdentity[ik] = p
				if fp != "" {
					seenFingerprints[fp] = struct{}{}
				}
			}
			duplicates++
			continue
		}

		if fp != "" {
			if _, ok := seenFingerprints[fp]; ok {
				duplicates++
				continue
			}
		}

		order = append(order, ik)
		byIdentity[ik] = p
		if fp != "" {
			seenFingerprints[fp] = struct{}{}
		}
	}

	resolved := make([]model.JobPosting, 0, len(order))
	for _, ik := range order {
		resolved = append(resolved, byIdentity[ik])
	}
	return resolved, duplicates
}

// enriches reports whether candidate carries a salary or description the
// kept posting lacks.
func enriches(kept, candidate model.JobPosting) bool {
	if kept.Salary == "" && candidate.Salary != "" {
		return true
	}
	if kept.Description == "" && candidate.Description != "" {
		return true
	}
	return false
}
