package gamelog

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize_Matchup(t *testing.T) {
	tests := []struct {
		matchup  string
		team     string
		opponent string
		loc      HomeAway
	}{
		{"LAL vs. BOS", "LAL", "BOS", Home},
		{"LAL @ BOS", "LAL", "BOS", Away},
		{"MIA vs BOS", "MIA", "BOS", Home},
	}
	for _, tt := range tests {
		t.Run(tt.matchup, func(t *testing.T) {
			rec, err := Normalize(2544, RawRow{Season: "2023-24", Date: "APR 14, 2024", Matchup: tt.matchup, Result: "W"})
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if rec.Team != tt.team || rec.Opponent != tt.opponent || rec.HomeGame != tt.loc {
				t.Errorf("got team=%s opp=%s loc=%s, want %s %s %s", rec.Team, rec.Opponent, rec.HomeGame, tt.team, tt.opponent, tt.loc)
			}
			if rec.Team != strings.Fields(tt.matchup)[0] {
				t.Errorf("team %q is not the first matchup token", rec.Team)
			}
		})
	}
}

func TestNormalize_ResultAndDate(t *testing.T) {
	rec, err := Normalize(1, RawRow{Date: "Apr 14, 2024", Matchup: "LAL vs. BOS", Result: "W (home team wins)"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Result != "W" {
		t.Errorf("Result = %q, want W", rec.Result)
	}
	if rec.Date != "2024-04-14" {
		t.Errorf("Date = %q, want 2024-04-14", rec.Date)
	}
}

func TestISODate_Layouts(t *testing.T) {
	for _, in := range []string{"OCT 25, 2023", "2023-10-25", "2023-10-25T00:00:00", "10/25/2023"} {
		got, err := ISODate(in)
		if err != nil {
			t.Fatalf("ISODate(%q): %v", in, err)
		}
		if got != "2023-10-25" {
			t.Errorf("ISODate(%q) = %q", in, got)
		}
	}
	for in, want := range map[string]string{
		"Apr 4, 2024":  "2024-04-04",
		"APR 04, 2024": "2024-04-04",
		"4/14/2024":    "2024-04-14",
		"04/04/2024":   "2024-04-04",
	} {
		got, err := ISODate(in)
		if err != nil || got != want {
			t.Errorf("ISODate(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ISODate("yesterday"); !errors.Is(err, ErrBadRow) {
		t.Errorf("expected ErrBadRow, got %v", err)
	}
}

func TestNormalizeAll_UnpaddedDates(t *testing.T) {
	recs, skipped := NormalizeAll(2544, []RawRow{
		{Date: "Apr 4, 2024", Matchup: "LAL vs. GSW", Result: "W"},
		{Date: "4/14/2024", Matchup: "LAL @ NOP", Result: "L"},
	})
	if skipped != 0 || len(recs) != 2 {
		t.Fatalf("records=%d skipped=%d", len(recs), skipped)
	}
	if recs[0].Date != "2024-04-04" || recs[1].Date != "2024-04-14" {
		t.Errorf("unexpected dates %q %q", recs[0].Date, recs[1].Date)
	}
}

func TestNormalize_StatsRoundTrip(t *testing.T) {
	raw := RawRow{
		Season: "2015-16", Date: "2016-04-13", Matchup: "GSW vs. MEM", Result: "W",
		Minutes: 30, Points: 46, FGM: 15, FGA: 24, FGPct: 0.625, FG3M: 10, FG3A: 19, FG3Pct: 0.526,
		FTM: 6, FTA: 6, FTPct: 1, Rebounds: 2, Assists: 6, Steals: 1, Blocks: 0, TOV: 2, Fouls: 1,
	}
	rec, err := Normalize(201939, raw)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Points != 46 || rec.ThreeMade != 10 || rec.FGPct != 0.625 || rec.Season != "2015-16" || rec.PlayerID != 201939 {
		t.Errorf("unexpected record: %+v", rec)
	}
	f := rec.Fields()
	if len(f) != len(Columns) {
		t.Fatalf("Fields() has %d values, Columns has %d", len(f), len(Columns))
	}
	if f[3] != "Home" || f[7] != "46" || f[10] != "0.625" {
		t.Errorf("unexpected fields: %v", f)
	}
}

func TestNormalize_BadMatchup(t *testing.T) {
	if _, err := Normalize(1, RawRow{Date: "2024-01-01", Matchup: "LAL"}); !errors.Is(err, ErrBadRow) {
		t.Fatalf("expected ErrBadRow, got %v", err)
	}
}

func TestNormalizeAll_SortsAndDedups(t *testing.T) {
	rows := []RawRow{
		{Date: "2024-01-03", Matchup: "LAL @ BOS", Result: "L"},
		{Date: "2024-01-01", Matchup: "LAL vs. DEN", Result: "W"},
		{Date: "2024-01-01", Matchup: "LAL vs. DEN", Result: "W"},
		{Date: "bogus", Matchup: "LAL vs. DEN", Result: "W"},
	}
	got, skipped := NormalizeAll(7, rows)
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(got) != 2 || got[0].Date != "2024-01-01" || got[1].Date != "2024-01-03" {
		t.Fatalf("unexpected records: %+v", got)
	}
}
