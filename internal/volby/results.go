package volby

import (
	"strings"

	"github.com/beevik/etree"
)

// Attribute and element names fixed by the upstream results feed.
const (
	attrSeats      = "POCMANDATU"
	elemTurnout    = "UCAST"
	attrValidVotes = "PLATNE_HLASY"

	elemParty        = "STRANA"
	attrPartyID      = "KSTRANA"
	attrPartyName    = "NAZ_STR"
	attrBallotNumber = "VSTRANA"

	elemPartyValues = "HODNOTY_STRANA"
	attrPartyVotes  = "HLASY"
	attrVoteShare   = "PROC_HLASU"

	elemRepresentative  = "POSLANEC"
	attrOrder           = "PORADOVE_CISLO"
	attrFirstName       = "JMENO"
	attrLastName        = "PRIJMENI"
	attrTitleBefore     = "TITULPRED"
	attrTitleAfter      = "TITULZA"
	attrPreferenceVotes = "PREDNOSTNI_HLASY"
	attrPreferenceShare = "PREDNOSTNI_HLASY_PROC"
)

// Region holds per-region vote totals together with the contesting parties.
type Region struct {
	RegionCode string
	Seats      *int
	ValidVotes *int
	Parties    []Party
}

// Party holds a party's aggregate result within one region.
type Party struct {
	PartyID         string
	PartyName       string
	BallotNumber    *int
	Votes           *int
	VoteShare       *float64
	Representatives []Representative
}

// Representative is an elected candidate as reported by the results feed.
// All fields come straight from the feed; no cross-section join is involved.
type Representative struct {
	RegionCode      string
	Order           *int
	FirstName       string
	LastName        string
	TitleBefore     *string
	TitleAfter      *string
	FullName        string
	PreferenceVotes *int
	PreferenceShare *float64
}

// ExtractRegionResults walks a loaded document and returns vote totals and
// elected representatives keyed by region name. Numeric attributes are
// parsed strictly: a malformed value aborts the whole extraction so that
// aggregate totals are never silently wrong.
func ExtractRegionResults(doc *Document) (map[string]Region, error) {
	root, err := doc.Root()
	if err != nil {
		return nil, err
	}

	regions := make(map[string]Region)
	for _, regionEl := range doc.FindAll(root, elemRegion) {
		name := regionEl.SelectAttrValue(attrRegionName, "")

		seats, err := parseOptionalIntStrict(attrSeats, regionEl.SelectAttrValue(attrSeats, ""))
		if err != nil {
			return nil, err
		}

		var validVotes *int
		if turnout := doc.Find(regionEl, elemTurnout); turnout != nil {
			validVotes, err = parseOptionalIntStrict(attrValidVotes, turnout.SelectAttrValue(attrValidVotes, ""))
			if err != nil {
				return nil, err
			}
		}

		var parties []Party
		for _, partyEl := range doc.FindAll(regionEl, elemParty) {
			party, err := buildPartyEntry(doc, partyEl)
			if err != nil {
				return nil, err
			}
			parties = append(parties, party)
		}

		regions[name] = Region{
			RegionCode: regionEl.SelectAttrValue(attrRegionCode, ""),
			Seats:      seats,
			ValidVotes: validVotes,
			Parties:    parties,
		}
	}

	return regions, nil
}

func buildPartyEntry(doc *Document, partyEl *etree.Element) (Party, error) {
	ballot, err := parseOptionalIntStrict(attrBallotNumber, partyEl.SelectAttrValue(attrBallotNumber, ""))
	if err != nil {
		return Party{}, err
	}

	var (
		votes *int
		share *float64
	)
	if values := doc.Find(partyEl, elemPartyValues); values != nil {
		votes, err = parseOptionalIntStrict(attrPartyVotes, values.SelectAttrValue(attrPartyVotes, ""))
		if err != nil {
			return Party{}, err
		}
		share = parseOptionalFloat(values.SelectAttrValue(attrVoteShare, ""))
	}

	var reps []Representative
	for _, repEl := range doc.FindAll(partyEl, elemRepresentative) {
		rep, err := buildRepresentativeEntry(repEl)
		if err != nil {
			return Party{}, err
		}
		// Document order already reflects the rank attribute; no re-sort.
		reps = append(reps, rep)
	}

	return Party{
		PartyID:         partyEl.SelectAttrValue(attrPartyID, ""),
		PartyName:       partyEl.SelectAttrValue(attrPartyName, ""),
		BallotNumber:    ballot,
		Votes:           votes,
		VoteShare:       share,
		Representatives: reps,
	}, nil
}

func buildRepresentativeEntry(repEl *etree.Element) (Representative, error) {
	order, err := parseOptionalIntStrict(attrOrder, repEl.SelectAttrValue(attrOrder, ""))
	if err != nil {
		return Representative{}, err
	}
	prefVotes, err := parseOptionalIntStrict(attrPreferenceVotes, repEl.SelectAttrValue(attrPreferenceVotes, ""))
	if err != nil {
		return Representative{}, err
	}

	first := strings.TrimSpace(repEl.SelectAttrValue(attrFirstName, ""))
	last := strings.TrimSpace(repEl.SelectAttrValue(attrLastName, ""))
	before := strings.TrimSpace(repEl.SelectAttrValue(attrTitleBefore, ""))
	after := strings.TrimSpace(repEl.SelectAttrValue(attrTitleAfter, ""))

	return Representative{
		RegionCode:      repEl.SelectAttrValue(attrRegionCode, ""),
		Order:           order,
		FirstName:       first,
		LastName:        last,
		TitleBefore:     optionalString(before),
		TitleAfter:      optionalString(after),
		FullName:        joinNameTokens(before, first, last, after),
		PreferenceVotes: prefVotes,
		PreferenceShare: parseOptionalFloat(repEl.SelectAttrValue(attrPreferenceShare, "")),
	}, nil
}

// joinNameTokens builds the display name from non-empty tokens in fixed
// order: honorific prefix, first name, last name, honorific suffix.
func joinNameTokens(tokens ...string) string {
	kept := tokens[:0:0]
	for _, token := range tokens {
		if token != "" {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
