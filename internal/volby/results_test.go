package volby

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestExtractRegionResults(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "results_feed.xml"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	regions, err := ExtractRegionResults(doc)
	if err != nil {
		t.Fatalf("ExtractRegionResults() error = %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}

	t.Run("region totals", func(t *testing.T) {
		region, ok := regions["Plzeňský"]
		if !ok {
			t.Fatalf("missing region: %v", regions)
		}
		if region.RegionCode != "4" {
			t.Fatalf("RegionCode = %q, want 4", region.RegionCode)
		}
		if region.Seats == nil || *region.Seats != 11 {
			t.Fatalf("Seats = %v, want 11", region.Seats)
		}
		if region.ValidVotes == nil || *region.ValidVotes != 295123 {
			t.Fatalf("ValidVotes = %v, want 295123", region.ValidVotes)
		}
		if len(region.Parties) != 2 {
			t.Fatalf("expected 2 parties, got %d", len(region.Parties))
		}
	})

	t.Run("party values with comma decimal share", func(t *testing.T) {
		party := regions["Plzeňský"].Parties[0]
		if party.PartyID != "20" || party.PartyName != "Občanská alternativa" {
			t.Fatalf("party identity mismatch: %#v", party)
		}
		if party.BallotNumber == nil || *party.BallotNumber != 5 {
			t.Fatalf("BallotNumber = %v, want 5", party.BallotNumber)
		}
		if party.Votes == nil || *party.Votes != 98123 {
			t.Fatalf("Votes = %v, want 98123", party.Votes)
		}
		if party.VoteShare == nil || *party.VoteShare != 33.25 {
			t.Fatalf("VoteShare = %v, want 33.25", party.VoteShare)
		}
	})

	t.Run("missing value element leaves votes absent", func(t *testing.T) {
		party := regions["Plzeňský"].Parties[1]
		if party.Votes != nil || party.VoteShare != nil {
			t.Fatalf("expected absent votes for party without values: %#v", party)
		}
	})

	t.Run("representatives keep document order and trim names", func(t *testing.T) {
		reps := regions["Plzeňský"].Parties[0].Representatives
		if len(reps) != 2 {
			t.Fatalf("expected 2 representatives, got %d", len(reps))
		}

		first := reps[0]
		if first.Order == nil || *first.Order != 1 {
			t.Fatalf("first rep order = %v, want 1", first.Order)
		}
		if first.TitleBefore == nil || *first.TitleBefore != "Ing." {
			t.Fatalf("TitleBefore = %v, want trimmed Ing.", first.TitleBefore)
		}
		if first.TitleAfter != nil {
			t.Fatalf("empty suffix should be absent: %v", *first.TitleAfter)
		}
		if first.FullName != "Ing. Jan Novák" {
			t.Fatalf("FullName = %q, want %q", first.FullName, "Ing. Jan Novák")
		}
		if first.PreferenceShare == nil || *first.PreferenceShare != 15.6 {
			t.Fatalf("PreferenceShare = %v, want 15.6", first.PreferenceShare)
		}

		second := reps[1]
		if second.FirstName != "Marie" {
			t.Fatalf("FirstName = %q, want trimmed Marie", second.FirstName)
		}
		if second.FullName != "Marie Svobodová Ph.D." {
			t.Fatalf("FullName = %q, want %q", second.FullName, "Marie Svobodová Ph.D.")
		}
	})

	t.Run("region without turnout element", func(t *testing.T) {
		region := regions["Karlovarský"]
		if region.ValidVotes != nil {
			t.Fatalf("ValidVotes = %v, want absent", *region.ValidVotes)
		}
		if region.Seats == nil || *region.Seats != 5 {
			t.Fatalf("Seats = %v, want 5", region.Seats)
		}
	})
}

func TestExtractRegionResultsStrictNumerics(t *testing.T) {
	const malformed = `<?xml version="1.0"?>
<VYSLEDKY xmlns="http://www.volby.cz/ps/">
  <KRAJ NAZ_KRAJ="Alpha" CIS_KRAJ="1" POCMANDATU="abc"/>
</VYSLEDKY>`

	doc, err := Parse([]byte(malformed))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = ExtractRegionResults(doc)
	var numErr *NumericError
	if !errors.As(err, &numErr) {
		t.Fatalf("ExtractRegionResults() err = %v, want NumericError", err)
	}
	if numErr.Attr != "POCMANDATU" {
		t.Fatalf("NumericError.Attr = %q, want POCMANDATU", numErr.Attr)
	}
}

func TestExtractRegionResultsDeterminism(t *testing.T) {
	doc, err := ParseFile(filepath.Join("testdata", "results_feed.xml"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	first, err := MarshalResults(doc)
	if err != nil {
		t.Fatalf("MarshalResults() error = %v", err)
	}
	second, err := MarshalResults(doc)
	if err != nil {
		t.Fatalf("MarshalResults() second error = %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("re-running extraction is not byte-identical\n got: %s\nwant: %s", second, first)
	}
}
