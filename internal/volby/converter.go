package volby

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ConvertResults reads a results-feed XML payload and returns the
// region/party vote-totals view as normalized JSON bytes.
func ConvertResults(r io.Reader) ([]byte, error) {
	doc, err := parseReader(r)
	if err != nil {
		return nil, err
	}
	return MarshalResults(doc)
}

// ConvertPreferences reads a preference-feed XML payload and returns the
// per-candidate preference-votes view as normalized JSON bytes.
func ConvertPreferences(r io.Reader) ([]byte, error) {
	doc, err := parseReader(r)
	if err != nil {
		return nil, err
	}
	return MarshalPreferences(doc)
}

// MarshalResults extracts region results from a loaded document and encodes
// them as indented JSON keyed by region name.
func MarshalResults(doc *Document) ([]byte, error) {
	regions, err := ExtractRegionResults(doc)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]RegionPayload, len(regions))
	for name, region := range regions {
		payload[name] = toRegionPayload(region)
	}
	return encodeJSON(payload)
}

// MarshalPreferences extracts preference votes from a loaded document and
// encodes them as indented JSON keyed by region name and party number.
func MarshalPreferences(doc *Document) ([]byte, error) {
	preferences, err := ExtractPreferenceVotes(doc)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]map[int]PreferenceEntryPayload, len(preferences))
	for name, parties := range preferences {
		regionPayload := make(map[int]PreferenceEntryPayload, len(parties))
		for partyID, entry := range parties {
			regionPayload[partyID] = toPreferencePayload(entry)
		}
		payload[name] = regionPayload
	}
	return encodeJSON(payload)
}

// RegionPayload is the results-view JSON shape consumed by presentation
// layers. Absent numerics encode as null, never zero.
type RegionPayload struct {
	RegionCode string         `json:"region_code"`
	Seats      *int           `json:"seats"`
	ValidVotes *int           `json:"valid_votes"`
	Parties    []PartyPayload `json:"parties"`
}

type PartyPayload struct {
	PartyID         string                  `json:"party_id"`
	PartyName       string                  `json:"party_name"`
	BallotNumber    *int                    `json:"ballot_number"`
	Votes           *int                    `json:"votes"`
	VoteShare       *float64                `json:"vote_share"`
	Representatives []RepresentativePayload `json:"representatives"`
}

type RepresentativePayload struct {
	RegionCode      string   `json:"region_code"`
	Order           *int     `json:"order"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	TitleBefore     *string  `json:"title_before"`
	TitleAfter      *string  `json:"title_after"`
	FullName        string   `json:"full_name"`
	PreferenceVotes *int     `json:"preference_votes"`
	PreferenceShare *float64 `json:"preference_share"`
}

// PreferenceEntryPayload is the preference-view JSON shape.
type PreferenceEntryPayload struct {
	TotalPreferenceVotes *int               `json:"total_preference_votes"`
	Candidates           []CandidatePayload `json:"candidates"`
}

type CandidatePayload struct {
	CandidateNumber *int     `json:"candidate_number"`
	PreferenceVotes *int     `json:"preference_votes"`
	PreferenceShare *float64 `json:"preference_share"`
}

func toRegionPayload(region Region) RegionPayload {
	parties := make([]PartyPayload, len(region.Parties))
	for i, party := range region.Parties {
		reps := make([]RepresentativePayload, len(party.Representatives))
		for j, rep := range party.Representatives {
			reps[j] = RepresentativePayload{
				RegionCode:      rep.RegionCode,
				Order:           rep.Order,
				FirstName:       rep.FirstName,
				LastName:        rep.LastName,
				TitleBefore:     rep.TitleBefore,
				TitleAfter:      rep.TitleAfter,
				FullName:        rep.FullName,
				PreferenceVotes: rep.PreferenceVotes,
				PreferenceShare: rep.PreferenceShare,
			}
		}
		parties[i] = PartyPayload{
			PartyID:         party.PartyID,
			PartyName:       party.PartyName,
			BallotNumber:    party.BallotNumber,
			Votes:           party.Votes,
			VoteShare:       party.VoteShare,
			Representatives: reps,
		}
	}
	return RegionPayload{
		RegionCode: region.RegionCode,
		Seats:      region.Seats,
		ValidVotes: region.ValidVotes,
		Parties:    parties,
	}
}

func toPreferencePayload(entry *PreferenceEntry) PreferenceEntryPayload {
	candidates := make([]CandidatePayload, len(entry.Candidates))
	for i, candidate := range entry.Candidates {
		candidates[i] = CandidatePayload{
			CandidateNumber: candidate.CandidateNumber,
			PreferenceVotes: candidate.PreferenceVotes,
			PreferenceShare: candidate.PreferenceShare,
		}
	}
	return PreferenceEntryPayload{
		TotalPreferenceVotes: entry.TotalPreferenceVotes,
		Candidates:           candidates,
	}
}

func parseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(data)
}

func encodeJSON(payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}
