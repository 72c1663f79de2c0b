package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SourceStats = "stats"
	SourceBref  = "bref"
)

// Config is read from the environment once per process.
type Config struct {
	PlayersFile  string
	OutputDir    string
	Source       string // stats | bref
	RequestDelay time.Duration
	HTTPTimeout  time.Duration
	RowIDMode    string // random | hash
	Debug        bool

	Remote        string // dynamodb | postgres | lake
	PlayersTable  string
	GameLogsTable string
	PostgresDSN   string
	EnsureSchema  bool

	LakeBucket      string
	LakePrefix      string
	AthenaDatabase  string
	AthenaWorkgroup string
	AthenaOutputS3  string
}

func Load() Config {
	return Config{
		PlayersFile:  envStr("PLAYERS_FILE", "available_players.json"),
		OutputDir:    envStr("OUTPUT_DIR", "."),
		Source:       strings.ToLower(envStr("GAMELOG_SOURCE", SourceStats)),
		RequestDelay: time.Duration(envInt("REQUEST_DELAY_MS", 1000)) * time.Millisecond,
		HTTPTimeout:  time.Duration(envInt("HTTP_TIMEOUT_SEC", 30)) * time.Second,
		RowIDMode:    strings.ToLower(envStr("ROW_ID_MODE", "random")),
		Debug:        envBool("DEBUG", false),

		Remote:        strings.ToLower(envStr("REMOTE_STORE", "dynamodb")),
		PlayersTable:  envStr("PLAYERS_TABLE", "nba_players"),
		GameLogsTable: envStr("GAMELOGS_TABLE", "nba_game_logs"),
		PostgresDSN:   envStr("POSTGRES_DSN", ""),
		EnsureSchema:  envBool("ENSURE_SCHEMA", false),

		LakeBucket:      envStr("LAKE_BUCKET", ""),
		LakePrefix:      envStr("LAKE_PREFIX", "gamelogs"),
		AthenaDatabase:  envStr("ATHENA_DB", "hoops"),
		AthenaWorkgroup: envStr("ATHENA_WORKGROUP", "primary"),
		AthenaOutputS3:  envStr("ATHENA_OUTPUT_S3", ""),
	}
}

// Logger returns a text slog logger; DEBUG lowers the level.
func (c Config) Logger() *slog.Logger {
	lvl := slog.LevelInfo
	if c.Debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func envStr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// PickInt prefers an explicit override (event field, flag) over env.
func PickInt(override *int, env int) int {
	if override != nil {
		return *override
	}
	return env
}

func PickBool(override *bool, env bool) bool {
	if override != nil {
		return *override
	}
	return env
}

func PickStr(override, env string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	return env
}
