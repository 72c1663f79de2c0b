package nba

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const gameLogJSON = `{
  "resource": "playergamelog",
  "resultSets": [{
    "name": "PlayerGameLog",
    "headers": ["SEASON_ID","Player_ID","Game_ID","GAME_DATE","MATCHUP","WL","MIN","FGM","FGA","FG_PCT","FG3M","FG3A","FG3_PCT","FTM","FTA","FT_PCT","OREB","DREB","REB","AST","STL","BLK","TOV","PF","PTS","PLUS_MINUS","VIDEO_AVAILABLE"],
    "rowSet": [
      ["22023",2544,"0022301194","APR 14, 2024","LAL @ NOP","W",41,11,20,0.55,3,8,0.375,3,5,0.6,1,8,9,17,2,0,4,1,28,22,1],
      ["22023",2544,"0022301177","APR 12, 2024","LAL vs. MEM","W",31,8,14,0.571,2,4,0.5,5,6,0.833,1,8,9,7,1,1,2,1,23,15,1],
      ["21946",1,"0024600001","NOV 01, 1946","NYK @ TRH","W",null,3,10,0.3,null,null,null,2,4,0.5,null,null,null,1,null,null,null,2,8,null,0]
    ]
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPlayerGameLog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playergamelog" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("PlayerID") != "2544" || q.Get("Season") != "2023-24" || q.Get("SeasonType") != SeasonTypeRegular {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("Referer") == "" {
			t.Error("missing Referer header")
		}
		_, _ = io.WriteString(w, gameLogJSON)
	})

	rows, err := c.PlayerGameLog(context.Background(), 2544, "2023-24")
	if err != nil {
		t.Fatalf("PlayerGameLog: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Date != "APR 14, 2024" || first.Matchup != "LAL @ NOP" || first.Result != "W" {
		t.Errorf("unexpected row: %+v", first)
	}
	if first.Points != 28 || first.Assists != 17 || first.Minutes != 41 || first.FG3Pct != 0.375 {
		t.Errorf("unexpected stats: %+v", first)
	}
	// nulls from early seasons come through as zero
	if rows[2].FG3A != 0 || rows[2].Minutes != 0 || rows[2].Points != 8 {
		t.Errorf("unexpected 1946 row: %+v", rows[2])
	}
}

func TestPlayerGameLog_Status(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	})
	if _, err := c.PlayerGameLog(context.Background(), 1, "2000-01"); err == nil {
		t.Fatal("expected an error for a 429")
	}
}

func TestAllPlayers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"resultSets":[{"name":"CommonAllPlayers",
		  "headers":["PERSON_ID","DISPLAY_LAST_COMMA_FIRST","DISPLAY_FIRST_LAST","ROSTERSTATUS","FROM_YEAR","TO_YEAR"],
		  "rowSet":[[2544,"James, LeBron","LeBron James",1,"2003","2024"],[893,"Jordan, Michael","Michael Jordan",0,"1984","2002"],[1,"Nene","Nene",0,"2002","2019"]]}]}`)
	})
	list, err := c.AllPlayers(context.Background(), "2023-24")
	if err != nil {
		t.Fatalf("AllPlayers: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 players, got %d", len(list))
	}
	if list[0].ID != 2544 || list[0].FirstName != "LeBron" || list[0].LastName != "James" || !list[0].IsActive {
		t.Errorf("unexpected player: %+v", list[0])
	}
	if list[1].IsActive {
		t.Errorf("Jordan should be inactive")
	}
	if list[2].LastName != "Nene" {
		t.Errorf("single-name player: %+v", list[2])
	}
}

func TestParseMinutes(t *testing.T) {
	if got := parseMinutes("33:15"); got != 33.25 {
		t.Errorf("parseMinutes = %v", got)
	}
}
