package nba

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
)

// SeasonTypeRegular is the only season type the career log pulls.
const SeasonTypeRegular = "Regular Season"

// PlayerGameLog implements fetch.Source against the playergamelog endpoint.
func (c *Client) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]gamelog.RawRow, error) {
	q := url.Values{}
	q.Set("PlayerID", strconv.FormatInt(playerID, 10))
	q.Set("Season", season)
	q.Set("SeasonType", SeasonTypeRegular)

	rs, err := c.getResultSet(ctx, "playergamelog", q)
	if err != nil {
		return nil, err
	}
	return parseGameLog(rs)
}

func parseGameLog(rs resultSet) ([]gamelog.RawRow, error) {
	iDate := rs.col("GAME_DATE")
	iMatchup := rs.col("MATCHUP")
	iWL := rs.col("WL")
	if iDate < 0 || iMatchup < 0 || iWL < 0 {
		return nil, fmt.Errorf("playergamelog: required columns missing (need GAME_DATE, MATCHUP, WL)")
	}
	iMin := rs.col("MIN")
	iPts := rs.col("PTS")
	iFGM, iFGA, iFGPct := rs.col("FGM"), rs.col("FGA"), rs.col("FG_PCT")
	i3M, i3A, i3Pct := rs.col("FG3M"), rs.col("FG3A"), rs.col("FG3_PCT")
	iFTM, iFTA, iFTPct := rs.col("FTM"), rs.col("FTA"), rs.col("FT_PCT")
	iReb, iAst, iStl := rs.col("REB"), rs.col("AST"), rs.col("STL")
	iBlk, iTov, iPF := rs.col("BLK"), rs.col("TOV"), rs.col("PF")

	rows := make([]gamelog.RawRow, 0, len(rs.RowSet))
	for _, r := range rs.RowSet {
		rows = append(rows, gamelog.RawRow{
			Date:     cellString(r, iDate),
			Matchup:  cellString(r, iMatchup),
			Result:   cellString(r, iWL),
			Minutes:  cellFloat(r, iMin),
			Points:   cellFloat(r, iPts),
			FGM:      cellFloat(r, iFGM),
			FGA:      cellFloat(r, iFGA),
			FGPct:    cellFloat(r, iFGPct),
			FG3M:     cellFloat(r, i3M),
			FG3A:     cellFloat(r, i3A),
			FG3Pct:   cellFloat(r, i3Pct),
			FTM:      cellFloat(r, iFTM),
			FTA:      cellFloat(r, iFTA),
			FTPct:    cellFloat(r, iFTPct),
			Rebounds: cellFloat(r, iReb),
			Assists:  cellFloat(r, iAst),
			Steals:   cellFloat(r, iStl),
			Blocks:   cellFloat(r, iBlk),
			TOV:      cellFloat(r, iTov),
			Fouls:    cellFloat(r, iPF),
		})
	}
	return rows, nil
}
