package feedindex

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// PreferenceEntry mirrors the converted preference-votes JSON for one party
// within a region.
type PreferenceEntry struct {
	TotalPreferenceVotes *int        `json:"total_preference_votes"`
	Candidates           []Candidate `json:"candidates"`
}

type Candidate struct {
	CandidateNumber *int     `json:"candidate_number"`
	PreferenceVotes *int     `json:"preference_votes"`
	PreferenceShare *float64 `json:"preference_share"`
}

// LoadPreferenceIndex reads a converted preference-votes JSON file, keyed by
// region name and party number. Party numbers stay in their JSON string form
// so lookups match the file verbatim.
func LoadPreferenceIndex(path string) (map[string]map[string]PreferenceEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var index map[string]map[string]PreferenceEntry
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return index, nil
}

// PartyNumbers returns a region's party numbers in ascending numeric order,
// skipping keys that are not integers.
func PartyNumbers(parties map[string]PreferenceEntry) []int {
	numbers := make([]int, 0, len(parties))
	for key := range parties {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
