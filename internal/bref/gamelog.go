package bref

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
)

const DefaultBaseURL = "https://www.basketball-reference.com"

var ua = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119 Safari/537.36 (+stats-research)"

// SlugFunc maps a player id to its basketball-reference slug ("jamesle01").
type SlugFunc func(playerID int64) (string, error)

// Source scrapes per-season game-log pages. It implements fetch.Source.
type Source struct {
	BaseURL string
	HTTP    *http.Client
	Slug    SlugFunc
	Logger  *slog.Logger
}

func NewSource(baseURL string, timeout time.Duration, slug SlugFunc, logger *slog.Logger) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Slug:    slug,
		Logger:  logger,
	}
}

// GameLogURL is the page for the season ending in endYear.
func (s *Source) GameLogURL(slug string, endYear int) string {
	return fmt.Sprintf("%s/players/%s/%s/gamelog/%d", s.BaseURL, slug[:1], slug, endYear)
}

func (s *Source) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]gamelog.RawRow, error) {
	slug, err := s.Slug(playerID)
	if err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, fmt.Errorf("bref: empty slug for player %d", playerID)
	}
	endYear, err := seasonEndYear(season)
	if err != nil {
		return nil, err
	}

	url := s.GameLogURL(slug, endYear)
	html, err := s.getText(ctx, url)
	if err != nil {
		return nil, err
	}
	rows, err := ParseGameLogHTML(html)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	s.Logger.Debug("bref: parsed", "url", url, "rows", len(rows))
	return rows, nil
}

func (s *Source) getText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		// no page for a season the player didn't play
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d for %s", resp.StatusCode, url)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// stat names differ between the classic and the current page layout
var (
	statDate     = []string{"date_game", "date"}
	statTeam     = []string{"team_id", "team_name_abbr"}
	statOpp      = []string{"opp_id", "opp_name_abbr"}
	statLocation = []string{"game_location"}
	statResult   = []string{"game_result"}
)

// ParseGameLogHTML reads the regular-season game-log table. Rows for games
// the player sat out (no minutes cell) are skipped.
func ParseGameLogHTML(html string) ([]gamelog.RawRow, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}
	// tables below the fold ship inside HTML comments
	clean := strings.ReplaceAll(html, "<!--", "")
	clean = strings.ReplaceAll(clean, "-->", "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return nil, err
	}
	table := doc.Find(`table#pgl_basic, table#player_game_log_reg`).First()
	if table.Length() == 0 {
		return nil, nil
	}

	rows := make([]gamelog.RawRow, 0, 82)
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if strings.Contains(tr.AttrOr("class", ""), "thead") {
			return
		}
		get := func(names ...string) string {
			for _, n := range names {
				c := tr.Find(fmt.Sprintf(`[data-stat="%s"]`, n)).First()
				if c.Length() > 0 {
					return strings.TrimSpace(c.Text())
				}
			}
			return ""
		}
		mp := get("mp")
		date := get(statDate...)
		team := get(statTeam...)
		opp := get(statOpp...)
		if mp == "" || date == "" || team == "" || opp == "" {
			return
		}

		marker := "vs."
		if get(statLocation...) == "@" {
			marker = "@"
		}
		rows = append(rows, gamelog.RawRow{
			Date:     date,
			Matchup:  team + " " + marker + " " + opp,
			Result:   get(statResult...),
			Minutes:  parseMinutes(mp),
			Points:   num(get("pts")),
			FGM:      num(get("fg")),
			FGA:      num(get("fga")),
			FGPct:    num(get("fg_pct")),
			FG3M:     num(get("fg3")),
			FG3A:     num(get("fg3a")),
			FG3Pct:   num(get("fg3_pct")),
			FTM:      num(get("ft")),
			FTA:      num(get("fta")),
			FTPct:    num(get("ft_pct")),
			Rebounds: num(get("trb")),
			Assists:  num(get("ast")),
			Steals:   num(get("stl")),
			Blocks:   num(get("blk")),
			TOV:      num(get("tov")),
			Fouls:    num(get("pf")),
		})
	})
	return rows, nil
}

// seasonEndYear maps "2023-24" to 2024.
func seasonEndYear(season string) (int, error) {
	start, err := strconv.Atoi(strings.SplitN(season, "-", 2)[0])
	if err != nil {
		return 0, fmt.Errorf("bref: bad season %q", season)
	}
	return start + 1, nil
}

func parseMinutes(s string) float64 {
	parts := strings.SplitN(s, ":", 2)
	mins, _ := strconv.Atoi(parts[0])
	secs := 0
	if len(parts) > 1 {
		secs, _ = strconv.Atoi(parts[1])
	}
	return float64(mins) + float64(secs)/60.0
}

func num(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
