package materializer

import (
	"fmt"
	"strings"
)

const (
	GameLogsTable = "game_logs"
	PlayersTable  = "players"
)

// gameLogColumns must follow the parquet tags on store.lakeGameLog.
var gameLogColumns = []string{
	"row_id bigint",
	"player_id bigint",
	"season string",
	"game_date string",
	"team string",
	"home_game string",
	"opponent string",
	"result string",
	"minutes double",
	"points bigint",
	"fg_made bigint",
	"fg_attempts bigint",
	"fg_pct double",
	"three_made bigint",
	"three_attempts bigint",
	"three_pct double",
	"ft_made bigint",
	"ft_attempts bigint",
	"ft_pct double",
	"rebounds bigint",
	"assists bigint",
	"steals bigint",
	"blocks bigint",
	"turnovers bigint",
	"fouls bigint",
}

var playerColumns = []string{
	"player_id bigint",
	"first_name string",
	"last_name string",
}

// BuildCreateGameLogs returns the external table DDL over the game-log
// parquet parts under location (s3://bucket/prefix/game_logs/).
func BuildCreateGameLogs(db, location string) string {
	return buildCreate(db, GameLogsTable, gameLogColumns, location)
}

// BuildCreatePlayers returns the external table DDL over the player files.
func BuildCreatePlayers(db, location string) string {
	return buildCreate(db, PlayersTable, playerColumns, location)
}

func buildCreate(db, table string, cols []string, location string) string {
	if !strings.HasSuffix(location, "/") {
		location += "/"
	}
	return fmt.Sprintf(`
CREATE EXTERNAL TABLE IF NOT EXISTS %s.%s (
  %s
)
STORED AS PARQUET
LOCATION '%s'
TBLPROPERTIES ('parquet.compression'='SNAPPY')
`, db, table, strings.Join(cols, ",\n  "), location)
}

// BuildExistingDates lists the game dates already stored for one player.
func BuildExistingDates(db string, playerID int64) string {
	return fmt.Sprintf(`SELECT DISTINCT game_date FROM %s.%s WHERE player_id = %d`, db, GameLogsTable, playerID)
}

// BuildCount counts the game-log rows stored for one player.
func BuildCount(db string, playerID int64) string {
	return fmt.Sprintf(`SELECT COUNT(*) AS rows FROM %s.%s WHERE player_id = %d`, db, GameLogsTable, playerID)
}
