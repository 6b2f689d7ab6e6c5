package volby

import (
	"sort"

	"github.com/beevik/etree"
)

// Element and attribute names fixed by the upstream preference-votes feed.
const (
	elemPartyTotals     = "STRANY"
	attrTotalVotes      = "POC_HLASU"
	elemCandidates      = "KANDIDATI"
	elemCandidate       = "KANDIDAT"
	attrCandidateNumber = "PORCISLO"
	attrCandidateVotes  = "HLASY"
)

// PreferenceEntry aggregates one party's preference votes within a region.
// TotalPreferenceVotes is nil for parties that appear only in the
// candidates section of the feed.
type PreferenceEntry struct {
	TotalPreferenceVotes *int
	Candidates           []CandidatePreference
}

// CandidatePreference carries one candidate's raw preference votes and the
// derived share of the party total.
type CandidatePreference struct {
	CandidateNumber *int
	PreferenceVotes *int
	PreferenceShare *float64
}

// ExtractPreferenceVotes walks a loaded document and returns preference-vote
// tallies keyed by region name and party number. Unlike region-results
// extraction, every numeric here is parsed leniently: malformed values
// degrade to absent data point by point and never abort the extraction.
func ExtractPreferenceVotes(doc *Document) (map[string]map[int]*PreferenceEntry, error) {
	root, err := doc.Root()
	if err != nil {
		return nil, err
	}

	preferences := make(map[string]map[int]*PreferenceEntry)
	for _, regionEl := range doc.FindAll(root, elemRegion) {
		name := regionEl.SelectAttrValue(attrRegionName, "")
		if name == "" {
			// Unusable as a map key.
			continue
		}
		preferences[name] = extractRegionPreferences(doc, regionEl)
	}

	return preferences, nil
}

func extractRegionPreferences(doc *Document, regionEl *etree.Element) map[int]*PreferenceEntry {
	parties := make(map[int]*PreferenceEntry)

	// Seed party containers from the totals section and remember the
	// parseable totals for share computation.
	partyTotals := make(map[int]int)
	if totalsEl := doc.Find(regionEl, elemPartyTotals); totalsEl != nil {
		for _, partyEl := range doc.FindAll(totalsEl, elemParty) {
			partyID := parseOptionalInt(partyEl.SelectAttrValue(attrPartyID, ""))
			if partyID == nil {
				continue
			}
			total := parseOptionalInt(partyEl.SelectAttrValue(attrTotalVotes, ""))
			parties[*partyID] = &PreferenceEntry{TotalPreferenceVotes: total}
			if total != nil {
				partyTotals[*partyID] = *total
			}
		}
	}

	// Attach candidate-level data, creating containers for parties the
	// totals section never mentioned.
	if candidatesEl := doc.Find(regionEl, elemCandidates); candidatesEl != nil {
		for _, candidateEl := range doc.FindAll(candidatesEl, elemCandidate) {
			partyID := parseOptionalInt(candidateEl.SelectAttrValue(attrPartyID, ""))
			if partyID == nil {
				continue
			}
			entry, ok := parties[*partyID]
			if !ok {
				entry = &PreferenceEntry{}
				parties[*partyID] = entry
			}

			votes := parseOptionalInt(candidateEl.SelectAttrValue(attrCandidateVotes, ""))
			entry.Candidates = append(entry.Candidates, CandidatePreference{
				CandidateNumber: parseOptionalInt(candidateEl.SelectAttrValue(attrCandidateNumber, "")),
				PreferenceVotes: votes,
				PreferenceShare: preferenceShare(votes, partyTotals[*partyID]),
			})
		}
	}

	for _, entry := range parties {
		sortCandidates(entry.Candidates)
	}
	return parties
}

// preferenceShare computes votes/total*100. The share is absent whenever
// votes are absent or the total is not strictly positive, so a zero total
// never divides. Anomalous feeds where votes exceed the total produce a
// share above 100, which is passed through unclamped.
func preferenceShare(votes *int, total int) *float64 {
	if votes == nil || total <= 0 {
		return nil
	}
	return floatPtr(float64(*votes) / float64(total) * 100)
}

// sortCandidates orders ascending by candidate number with unnumbered
// candidates trailing; ties keep encounter order so re-running extraction on
// the same input is byte-identical.
func sortCandidates(candidates []CandidatePreference) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].CandidateNumber, candidates[j].CandidateNumber
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
