package feedindex

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"volby/internal/volby"
)

// RegionSummary is the minimal data needed to list and search regions from a
// converted results file.
type RegionSummary struct {
	Name       string
	Identifier string
	RegionCode string
	Seats      *int
	ValidVotes *int
	PartyNames []string
}

type regionDocument struct {
	RegionCode string `json:"region_code"`
	Seats      *int   `json:"seats"`
	ValidVotes *int   `json:"valid_votes"`
	Parties    []struct {
		PartyID   string `json:"party_id"`
		PartyName string `json:"party_name"`
	} `json:"parties"`
}

// LoadRegionSummaries reads a converted region-results JSON file and returns
// summaries sorted by numeric region code, then name.
func LoadRegionSummaries(path string) ([]RegionSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var regions map[string]regionDocument
	if err := json.Unmarshal(raw, &regions); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	summaries := make([]RegionSummary, 0, len(regions))
	for name, region := range regions {
		var partyNames []string
		for _, party := range region.Parties {
			if party.PartyName != "" {
				partyNames = append(partyNames, party.PartyName)
			}
		}
		summaries = append(summaries, RegionSummary{
			Name:       name,
			Identifier: volby.NormalizeIdentifier(name),
			RegionCode: region.RegionCode,
			Seats:      region.Seats,
			ValidVotes: region.ValidVotes,
			PartyNames: partyNames,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		ai, _ := strconv.Atoi(summaries[i].RegionCode)
		bi, _ := strconv.Atoi(summaries[j].RegionCode)
		if ai != bi {
			return ai < bi
		}
		return summaries[i].Name < summaries[j].Name
	})

	return summaries, nil
}

// FilterSummaries performs a fuzzy search over region names, identifiers,
// codes, and party names.
func FilterSummaries(items []RegionSummary, query string) []RegionSummary {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]RegionSummary(nil), items...)
	}

	lowerQuery := strings.ToLower(query)
	tokens := strings.Fields(lowerQuery)

	var (
		filteredIdx []int
		choices     []string
	)
	for i, item := range items {
		body := strings.ToLower(strings.Join([]string{
			item.Name,
			item.Identifier,
			item.RegionCode,
			strings.Join(item.PartyNames, " "),
		}, " "))

		matchesAll := true
		for _, token := range tokens {
			if !strings.Contains(body, token) {
				matchesAll = false
				break
			}
		}
		if !matchesAll {
			continue
		}

		filteredIdx = append(filteredIdx, i)
		choices = append(choices, body)
	}

	if len(filteredIdx) == 0 {
		return nil
	}

	matches := fuzzy.RankFindNormalizedFold(lowerQuery, choices)
	if len(matches) == 0 {
		// fallback to filtered order if fuzzy produced nothing
		result := make([]RegionSummary, len(filteredIdx))
		for i, idx := range filteredIdx {
			result[i] = items[idx]
		}
		return result
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	const maxResults = 100
	result := make([]RegionSummary, 0, min(len(matches), maxResults))
	for i, match := range matches {
		if i >= maxResults {
			break
		}
		result = append(result, items[filteredIdx[match.OriginalIndex]])
	}
	return result
}
