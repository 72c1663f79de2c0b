// Package summary computes career totals and splits from normalized game logs.
package summary

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
)

const topN = 5

type Split struct {
	Location    gamelog.HomeAway
	Games       int
	AvgPoints   float64
	AvgAssists  float64
	AvgRebounds float64
	WinPct      float64
}

type OpponentAvg struct {
	Opponent  string
	Games     int
	AvgPoints float64
}

type Career struct {
	TotalGames   int
	Seasons      []string
	Teams        []string // first-appearance order
	Splits       []Split  // Away then Home, only locations with games
	TopOpponents []OpponentAvg
	TopGames     []gamelog.GameRecord
}

// Compute expects recs sorted by date, as gamelog.NormalizeAll returns them.
func Compute(recs []gamelog.GameRecord) Career {
	c := Career{TotalGames: len(recs)}

	seenSeason := map[string]bool{}
	seenTeam := map[string]bool{}
	type acc struct{ games, pts, ast, reb, wins int }
	loc := map[gamelog.HomeAway]*acc{}
	opp := map[string]*acc{}

	for _, r := range recs {
		if !seenSeason[r.Season] {
			seenSeason[r.Season] = true
			c.Seasons = append(c.Seasons, r.Season)
		}
		if !seenTeam[r.Team] {
			seenTeam[r.Team] = true
			c.Teams = append(c.Teams, r.Team)
		}
		a := loc[r.HomeGame]
		if a == nil {
			a = &acc{}
			loc[r.HomeGame] = a
		}
		a.games++
		a.pts += r.Points
		a.ast += r.Assists
		a.reb += r.Rebounds
		if r.Result == "W" {
			a.wins++
		}
		o := opp[r.Opponent]
		if o == nil {
			o = &acc{}
			opp[r.Opponent] = o
		}
		o.games++
		o.pts += r.Points
	}

	for _, l := range []gamelog.HomeAway{gamelog.Away, gamelog.Home} {
		a := loc[l]
		if a == nil {
			continue
		}
		n := float64(a.games)
		c.Splits = append(c.Splits, Split{
			Location:    l,
			Games:       a.games,
			AvgPoints:   round2(float64(a.pts) / n),
			AvgAssists:  round2(float64(a.ast) / n),
			AvgRebounds: round2(float64(a.reb) / n),
			WinPct:      round2(float64(a.wins) / n * 100),
		})
	}

	for name, o := range opp {
		c.TopOpponents = append(c.TopOpponents, OpponentAvg{
			Opponent:  name,
			Games:     o.games,
			AvgPoints: round2(float64(o.pts) / float64(o.games)),
		})
	}
	sort.Slice(c.TopOpponents, func(i, j int) bool {
		a, b := c.TopOpponents[i], c.TopOpponents[j]
		if a.AvgPoints != b.AvgPoints {
			return a.AvgPoints > b.AvgPoints
		}
		return a.Opponent < b.Opponent
	})
	if len(c.TopOpponents) > topN {
		c.TopOpponents = c.TopOpponents[:topN]
	}

	// ties keep the earlier game
	games := append([]gamelog.GameRecord(nil), recs...)
	sort.SliceStable(games, func(i, j int) bool { return games[i].Points > games[j].Points })
	if len(games) > topN {
		games = games[:topN]
	}
	c.TopGames = games
	return c
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

// Render writes the summary in the console layout.
func Render(w io.Writer, c Career) error {
	line := strings.Repeat("-", 50)
	var b strings.Builder
	fmt.Fprintf(&b, "\nCareer Summary:\n%s\n", line)
	fmt.Fprintf(&b, "Total Games: %d\n", c.TotalGames)
	fmt.Fprintf(&b, "Seasons Played: %d\n", len(c.Seasons))
	fmt.Fprintf(&b, "Teams Played For: %s\n", strings.Join(c.Teams, ", "))
	fmt.Fprintf(&b, "\nHome/Away Splits:\n%s\n", line)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	splits := make([][]string, 0, len(c.Splits))
	for _, s := range c.Splits {
		splits = append(splits, []string{string(s.Location), strconv.Itoa(s.Games), f2(s.AvgPoints), f2(s.AvgAssists), f2(s.AvgRebounds), f2(s.WinPct)})
	}
	table(w, []string{"Location", "Games", "Points", "Assists", "Rebounds", "Win %"}, splits)

	if _, err := fmt.Fprintf(w, "\nTop Scoring Averages by Opponent:\n%s\n", line); err != nil {
		return err
	}
	opps := make([][]string, 0, len(c.TopOpponents))
	for _, o := range c.TopOpponents {
		opps = append(opps, []string{o.Opponent, f2(o.AvgPoints), strconv.Itoa(o.Games)})
	}
	table(w, []string{"Opponent", "Points", "Games"}, opps)

	if _, err := fmt.Fprintf(w, "\nTop 5 Scoring Games:\n%s\n", line); err != nil {
		return err
	}
	top := make([][]string, 0, len(c.TopGames))
	for _, g := range c.TopGames {
		top = append(top, []string{g.Date, g.Team, string(g.HomeGame), g.Opponent,
			strconv.Itoa(g.Points), strconv.Itoa(g.FGMade), strconv.Itoa(g.FGAttempts), strconv.Itoa(g.ThreeMade)})
	}
	table(w, []string{"Date", "Team", "Home_Game", "Opponent", "Points", "FG_Made", "FG_Attempts", "3PT_Made"}, top)
	return nil
}

func table(w io.Writer, header []string, rows [][]string) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetBorder(false)
	tw.AppendBulk(rows)
	tw.Render()
}

func f2(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }
