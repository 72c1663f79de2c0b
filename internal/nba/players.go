package nba

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tyler180/hoops-gamelogs/internal/players"
)

// AllPlayers pulls the league-wide player index (commonallplayers) for the
// given season label, historical players included.
func (c *Client) AllPlayers(ctx context.Context, season string) ([]players.Player, error) {
	q := url.Values{}
	q.Set("LeagueID", "00")
	q.Set("Season", season)
	q.Set("IsOnlyCurrentSeason", "0")

	rs, err := c.getResultSet(ctx, "commonallplayers", q)
	if err != nil {
		return nil, err
	}
	return parseAllPlayers(rs)
}

func parseAllPlayers(rs resultSet) ([]players.Player, error) {
	iID := rs.col("PERSON_ID")
	iFull := rs.col("DISPLAY_FIRST_LAST")
	iLastFirst := rs.col("DISPLAY_LAST_COMMA_FIRST")
	iStatus := rs.col("ROSTERSTATUS")
	if iID < 0 || iFull < 0 {
		return nil, fmt.Errorf("commonallplayers: required columns missing (need PERSON_ID, DISPLAY_FIRST_LAST)")
	}

	out := make([]players.Player, 0, len(rs.RowSet))
	for _, r := range rs.RowSet {
		id := int64(cellFloat(r, iID))
		full := cellString(r, iFull)
		if id == 0 || full == "" {
			continue
		}
		first, last := splitLastFirst(cellString(r, iLastFirst), full)
		out = append(out, players.Player{
			ID:        id,
			FullName:  full,
			FirstName: first,
			LastName:  last,
			IsActive:  cellFloat(r, iStatus) == 1,
		})
	}
	return out, nil
}

// splitLastFirst reads "James, LeBron"; single-name players ("Nenê") fall
// back to the display name as the last name.
func splitLastFirst(lastFirst, full string) (first, last string) {
	if i := strings.Index(lastFirst, ","); i >= 0 {
		return strings.TrimSpace(lastFirst[i+1:]), strings.TrimSpace(lastFirst[:i])
	}
	if lastFirst != "" {
		return "", lastFirst
	}
	return "", full
}
