package reconcile

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
)

func records(playerID int64, n int) []gamelog.GameRecord {
	out := make([]gamelog.GameRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, gamelog.GameRecord{
			PlayerID: playerID,
			Date:     fmt.Sprintf("2024-01-%02d", i+1),
			Team:     "LAL",
			Points:   20 + i,
		})
	}
	return out
}

func TestNewRecords_TenCandidatesSevenRemote(t *testing.T) {
	cands := records(2544, 10)
	remote := NewKeySet()
	for _, r := range cands[:7] {
		remote.Add(r.Key())
	}

	got := NewRecords(cands, remote)
	if len(got) != 3 {
		t.Fatalf("expected 3 new records, got %d", len(got))
	}
	for i, r := range got {
		if r.Date != cands[7+i].Date {
			t.Errorf("got[%d].Date = %s, want %s", i, r.Date, cands[7+i].Date)
		}
	}
}

func TestNewRecords_SetDifference(t *testing.T) {
	tests := []struct {
		name   string
		cands  []gamelog.GameRecord
		remote KeySet
		want   int
	}{
		{"empty remote passes everything", records(1, 5), NewKeySet(), 5},
		{"nil remote passes everything", records(1, 5), nil, 5},
		{"empty candidates", nil, NewKeySet(gamelog.Key{PlayerID: 1, Date: "2024-01-01"}), 0},
		{"full overlap", records(1, 4), keysOf(records(1, 4)), 0},
		{"other player same dates", records(1, 4), keysOf(records(2, 4)), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRecords(tt.cands, tt.remote)
			if len(got) != tt.want {
				t.Fatalf("got %d records, want %d", len(got), tt.want)
			}
			for _, r := range got {
				if tt.remote.Has(r.Key()) {
					t.Errorf("record %v is already remote", r.Key())
				}
			}
		})
	}
}

func TestNewRecords_KeyOnlyEquality(t *testing.T) {
	cands := records(1, 1)
	remote := NewKeySet(gamelog.Key{PlayerID: 1, Date: cands[0].Date})
	cands[0].Points = 99
	cands[0].Team = "BOS"
	if got := NewRecords(cands, remote); len(got) != 0 {
		t.Fatalf("differing stats must not make a record new, got %d", len(got))
	}
}

func TestNewRecords_Idempotent(t *testing.T) {
	cands := records(3, 8)
	remote := keysOf(cands[2:5])
	first := NewRecords(cands, remote)
	second := NewRecords(cands, remote)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reconcile is not idempotent:\n%v\n%v", first, second)
	}
	if again := NewRecords(first, remote); !reflect.DeepEqual(again, first) {
		t.Fatalf("reconciling the output again changed it")
	}
}

func TestAssignIDs(t *testing.T) {
	recs := records(9, 20)

	rows := AssignIDs(recs, RandomIDs{})
	for _, r := range rows {
		if r.ID < 0 {
			t.Fatalf("negative id %d", r.ID)
		}
	}

	a := AssignIDs(recs, KeyHashIDs{})
	b := AssignIDs(recs, KeyHashIDs{})
	seen := map[int64]bool{}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("hash ids differ for %v", a[i].Key())
		}
		if a[i].ID < 0 {
			t.Fatalf("negative id %d", a[i].ID)
		}
		if seen[a[i].ID] {
			t.Fatalf("duplicate hash id for %v", a[i].Key())
		}
		seen[a[i].ID] = true
	}
}

func TestGeneratorFor(t *testing.T) {
	if _, ok := GeneratorFor("hash").(KeyHashIDs); !ok {
		t.Error("hash mode should use KeyHashIDs")
	}
	if _, ok := GeneratorFor("").(RandomIDs); !ok {
		t.Error("default mode should use RandomIDs")
	}
}

func keysOf(recs []gamelog.GameRecord) KeySet {
	ks := NewKeySet()
	for _, r := range recs {
		ks.Add(r.Key())
	}
	return ks
}
