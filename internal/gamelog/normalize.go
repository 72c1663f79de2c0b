package gamelog

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// homeToken marks a home game in a matchup ("LAL vs. BOS"); road games use "@".
const homeToken = "vs"

// Unpadded day and month layouts accept padded input too.
var dateLayouts = []string{
	"Jan 2, 2006",
	"2006-01-02",
	"2006-01-02T15:04:05",
	"1/2/2006",
}

// Normalize maps a raw source row to the canonical record for playerID.
func Normalize(playerID int64, raw RawRow) (GameRecord, error) {
	tokens := strings.Fields(raw.Matchup)
	if len(tokens) < 2 {
		return GameRecord{}, fmt.Errorf("%w: matchup %q", ErrBadRow, raw.Matchup)
	}
	date, err := ISODate(raw.Date)
	if err != nil {
		return GameRecord{}, err
	}

	loc := Away
	if strings.Contains(raw.Matchup, homeToken) {
		loc = Home
	}

	return GameRecord{
		PlayerID: playerID,
		Season:   strings.TrimSpace(raw.Season),
		Date:     date,
		Team:     tokens[0],
		HomeGame: loc,
		Opponent: tokens[len(tokens)-1],
		Result:   ResultCode(raw.Result),

		Minutes:      raw.Minutes,
		Points:       toInt(raw.Points),
		FGMade:       toInt(raw.FGM),
		FGAttempts:   toInt(raw.FGA),
		FGPct:        raw.FGPct,
		ThreeMade:    toInt(raw.FG3M),
		ThreeAttempt: toInt(raw.FG3A),
		ThreePct:     raw.FG3Pct,
		FTMade:       toInt(raw.FTM),
		FTAttempts:   toInt(raw.FTA),
		FTPct:        raw.FTPct,
		Rebounds:     toInt(raw.Rebounds),
		Assists:      toInt(raw.Assists),
		Steals:       toInt(raw.Steals),
		Blocks:       toInt(raw.Blocks),
		Turnovers:    toInt(raw.TOV),
		Fouls:        toInt(raw.Fouls),
	}, nil
}

// ISODate converts any of the accepted source date layouts to YYYY-MM-DD.
func ISODate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: date %q", ErrBadRow, s)
}

// ResultCode collapses "W (home team wins)" and friends to "W".
func ResultCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return s[:1]
}

// NormalizeAll normalizes rows for one player, drops rows that fail and
// repeated keys (first wins), and returns the records sorted by date.
// skipped counts rows dropped for either reason.
func NormalizeAll(playerID int64, rows []RawRow) (out []GameRecord, skipped int) {
	seen := make(map[Key]struct{}, len(rows))
	out = make([]GameRecord, 0, len(rows))
	for _, raw := range rows {
		rec, err := Normalize(playerID, raw)
		if err != nil {
			skipped++
			continue
		}
		if _, dup := seen[rec.Key()]; dup {
			skipped++
			continue
		}
		seen[rec.Key()] = struct{}{}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, skipped
}

func toInt(f float64) int {
	return int(math.Round(f))
}
