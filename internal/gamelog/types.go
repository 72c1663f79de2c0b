package gamelog

import (
	"errors"
	"strconv"
)

// HomeAway is the human-readable location label derived from a matchup.
type HomeAway string

const (
	Home HomeAway = "Home"
	Away HomeAway = "Away"
)

// ErrBadRow is wrapped by Normalize when a raw row cannot be mapped.
var ErrBadRow = errors.New("gamelog: bad raw row")

// RawRow is one game as a source returns it, before normalization.
type RawRow struct {
	Season  string // e.g. "2023-24"; tagged by the fetcher
	Date    string // source date text, e.g. "APR 14, 2024"
	Matchup string // "LAL vs. BOS" or "LAL @ BOS"
	Result  string // "W", "L", "W (+12)" ...

	Minutes  float64
	Points   float64
	FGM      float64
	FGA      float64
	FGPct    float64
	FG3M     float64
	FG3A     float64
	FG3Pct   float64
	FTM      float64
	FTA      float64
	FTPct    float64
	Rebounds float64
	Assists  float64
	Steals   float64
	Blocks   float64
	TOV      float64
	Fouls    float64
}

// GameRecord is the canonical per-game row. Never mutated after Normalize.
type GameRecord struct {
	PlayerID int64
	Season   string
	Date     string // YYYY-MM-DD
	Team     string
	HomeGame HomeAway
	Opponent string
	Result   string // single character

	Minutes      float64
	Points       int
	FGMade       int
	FGAttempts   int
	FGPct        float64
	ThreeMade    int
	ThreeAttempt int
	ThreePct     float64
	FTMade       int
	FTAttempts   int
	FTPct        float64
	Rebounds     int
	Assists      int
	Steals       int
	Blocks       int
	Turnovers    int
	Fouls        int
}

// Key is the composite identity used for uniqueness and reconciliation.
type Key struct {
	PlayerID int64
	Date     string
}

// Key returns the record's composite identity.
func (r GameRecord) Key() Key { return Key{PlayerID: r.PlayerID, Date: r.Date} }

// Columns is the canonical output header. Order matters to downstream consumers.
var Columns = []string{
	"Season",
	"Date",
	"Team",
	"Home_Game",
	"Opponent",
	"Result",
	"Minutes",
	"Points",
	"FG_Made",
	"FG_Attempts",
	"FG_Percentage",
	"3PT_Made",
	"3PT_Attempts",
	"3PT_Percentage",
	"FT_Made",
	"FT_Attempts",
	"FT_Percentage",
	"Rebounds",
	"Assists",
	"Steals",
	"Blocks",
	"Turnovers",
	"Fouls",
}

// Fields renders the record in Columns order.
func (r GameRecord) Fields() []string {
	return []string{
		r.Season,
		r.Date,
		r.Team,
		string(r.HomeGame),
		r.Opponent,
		r.Result,
		fmtFloat(r.Minutes),
		strconv.Itoa(r.Points),
		strconv.Itoa(r.FGMade),
		strconv.Itoa(r.FGAttempts),
		fmtFloat(r.FGPct),
		strconv.Itoa(r.ThreeMade),
		strconv.Itoa(r.ThreeAttempt),
		fmtFloat(r.ThreePct),
		strconv.Itoa(r.FTMade),
		strconv.Itoa(r.FTAttempts),
		fmtFloat(r.FTPct),
		strconv.Itoa(r.Rebounds),
		strconv.Itoa(r.Assists),
		strconv.Itoa(r.Steals),
		strconv.Itoa(r.Blocks),
		strconv.Itoa(r.Turnovers),
		strconv.Itoa(r.Fouls),
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
