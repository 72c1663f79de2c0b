package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
)

// DefaultDelay is the pause between consecutive season requests.
const DefaultDelay = 1 * time.Second

// FirstSeason is the first season the league kept game logs for.
const FirstSeason = 1946

// ErrNoData means every season was queried and none produced a row.
var ErrNoData = errors.New("fetch: no games found")

// Source returns the raw game rows of one player for one season.
type Source interface {
	PlayerGameLog(ctx context.Context, playerID int64, season string) ([]gamelog.RawRow, error)
}

// Fetcher walks seasons one at a time against a Source.
type Fetcher struct {
	Source Source
	Delay  time.Duration
	Logger *slog.Logger

	sleep func(time.Duration)
}

func New(src Source, delay time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{Source: src, Delay: delay, Logger: logger, sleep: time.Sleep}
}

// Fetch queries every season in order. A failing season is logged and skipped.
// Rows come back tagged with the season they were requested for.
func (f *Fetcher) Fetch(ctx context.Context, playerID int64, seasons []string) ([]gamelog.RawRow, error) {
	sleep := f.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	var all []gamelog.RawRow
	for i, season := range seasons {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		if i > 0 && f.Delay > 0 {
			sleep(f.Delay)
		}

		rows, err := f.Source.PlayerGameLog(ctx, playerID, season)
		if err != nil {
			f.Logger.Warn("fetch: season failed", "player_id", playerID, "season", season, "err", err)
			continue
		}
		if len(rows) == 0 {
			f.Logger.Debug("fetch: no games", "player_id", playerID, "season", season)
			continue
		}
		for j := range rows {
			rows[j].Season = season
		}
		f.Logger.Info(fmt.Sprintf("fetch: found %d games in %s", len(rows), season), "player_id", playerID)
		all = append(all, rows...)
	}
	if len(all) == 0 {
		return nil, ErrNoData
	}
	return all, nil
}

// SeasonLabel formats the season that starts in year, e.g. 2023 -> "2023-24".
func SeasonLabel(year int) string {
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// SeasonLabels returns labels for start years from..to inclusive.
func SeasonLabels(from, to int) []string {
	if to < from {
		return nil
	}
	out := make([]string, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, SeasonLabel(y))
	}
	return out
}
