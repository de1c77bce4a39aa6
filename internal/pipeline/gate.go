package pipeline

import "jobscout/aggregator-service/internal/model"

// DedupIndex is the cross-run duplicate tracker used by the persistence
// gate. It is loaded once per run from the store's existing non-rejected
// records and updated in memory as new records are admitted, so within-run
// duplicates against earlier same-run insertions are caught too.
//
// DedupIndex is not safe for concurrent use; the run lock serialises the
// batch insert around it.
type DedupIndex struct {
	uniqueKeys   map[string]struct{}
	identities   map[string]struct{}
	fingerprints map[string]struct{}
}

// NewDedupIndex builds the index from the stored records preloaded at the
// start of a run.
func NewDedupIndex(records []model.JobRecord) *DedupIndex {
	ix := &DedupIndex{
		uniqueKeys:   make(map[string]struct{}, len(records)),
		identities:   make(map[string]struct{}, len(records)),
		fingerprints: make(map[string]struct{}, len(records)),
	}
	for _, r := range records {
		ix.uniqueKeys[r.UniqueKey] = struct{}{}
		ix.identities[IdentityKey(r.Company, r.Title)] = struct{}{}
		if fp := Fingerprint(r.Description); fp != "" {
			ix.fingerprints[fp] = struct{}{}
		}
	}
	return ix
}

// Admit decides whether a scored posting should become a new JobRecord.
// Hard-rejected postings and postings matching a stored unique key,
// identity, or fingerprint are skipped. An admitted posting is registered
// immediately so later same-run arrivals are recognised as duplicates.
func (ix *DedupIndex) Admit(p model.ScoredPosting) bool {
	if p.HardRejected() {
		return false
	}

	uk := UniqueKey(p.JobPosting)
	if _, ok := ix.uniqueKeys[uk]; ok {
		return false
	}

	ik := IdentityKey(p.Company, p.Title)
	if _, ok := ix.identities[ik]; ok {
		return false
	}

	fp := Fingerprint(p.Description)
	if fp != "" {
		if _, ok := ix.fingerprints[fp]; ok {
			return false
		}
	}

	ix.uniqueKeys[uk] = struct{}{}
	ix.identities[ik] = struct{}{}
	if fp != "" {
		ix.fingerprints[fp] = struct{}{}
	}
	return true
}
