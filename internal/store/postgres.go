package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
)

var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS players (
  player_id  BIGINT PRIMARY KEY,
  first_name TEXT NOT NULL DEFAULT '',
  last_name  TEXT NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS game_logs (
  row_id         BIGINT PRIMARY KEY,
  player_id      BIGINT NOT NULL REFERENCES players(player_id),
  season         TEXT NOT NULL,
  game_date      DATE NOT NULL,
  team           TEXT NOT NULL,
  home_game      TEXT NOT NULL,
  opponent       TEXT NOT NULL,
  result         TEXT NOT NULL,
  minutes        DOUBLE PRECISION,
  points         INTEGER,
  fg_made        INTEGER,
  fg_attempts    INTEGER,
  fg_pct         DOUBLE PRECISION,
  three_made     INTEGER,
  three_attempts INTEGER,
  three_pct      DOUBLE PRECISION,
  ft_made        INTEGER,
  ft_attempts    INTEGER,
  ft_pct         DOUBLE PRECISION,
  rebounds       INTEGER,
  assists        INTEGER,
  steals         INTEGER,
  blocks         INTEGER,
  turnovers      INTEGER,
  fouls          INTEGER
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS game_logs_player_date_key ON game_logs (player_id, game_date)`,
}

var gameLogCopyColumns = []string{
	"row_id", "player_id", "season", "game_date", "team", "home_game", "opponent", "result",
	"minutes", "points", "fg_made", "fg_attempts", "fg_pct",
	"three_made", "three_attempts", "three_pct", "ft_made", "ft_attempts", "ft_pct",
	"rebounds", "assists", "steals", "blocks", "turnovers", "fouls",
}

// Postgres keeps both tables in one database; appends run in a single
// transaction so a failed load leaves nothing behind.
type Postgres struct {
	DB     *sql.DB
	Logger *slog.Logger
}

func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgres(db, logger), nil
}

func NewPostgres(db *sql.DB, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{DB: db, Logger: logger}
}

func (p *Postgres) Close() error { return p.DB.Close() }

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) EnsurePlayer(ctx context.Context, pl players.Player) error {
	_, err := p.DB.ExecContext(ctx,
		`INSERT INTO players (player_id, first_name, last_name) VALUES ($1, $2, $3) ON CONFLICT (player_id) DO NOTHING`,
		pl.ID, pl.FirstName, pl.LastName)
	if err != nil {
		return fmt.Errorf("insert player %d: %w", pl.ID, err)
	}
	return nil
}

func (p *Postgres) ExistingKeys(ctx context.Context, playerID int64) (reconcile.KeySet, error) {
	rows, err := p.DB.QueryContext(ctx,
		`SELECT to_char(game_date, 'YYYY-MM-DD') FROM game_logs WHERE player_id = $1`, playerID)
	if err != nil {
		return nil, fmt.Errorf("select game dates for %d: %w", playerID, err)
	}
	defer rows.Close()

	keys := reconcile.NewKeySet()
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		keys.Add(gamelog.Key{PlayerID: playerID, Date: d})
	}
	return keys, rows.Err()
}

// AppendGameLogs bulk-loads rows with COPY inside one transaction.
func (p *Postgres) AppendGameLogs(ctx context.Context, rows []reconcile.Row) (err error) {
	if len(rows) == 0 {
		return nil
	}
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("game_logs", gameLogCopyColumns...))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	for _, r := range rows {
		g := r.GameRecord
		if _, err = stmt.ExecContext(ctx,
			r.ID, g.PlayerID, g.Season, g.Date, g.Team, string(g.HomeGame), g.Opponent, g.Result,
			g.Minutes, g.Points, g.FGMade, g.FGAttempts, g.FGPct,
			g.ThreeMade, g.ThreeAttempt, g.ThreePct, g.FTMade, g.FTAttempts, g.FTPct,
			g.Rebounds, g.Assists, g.Steals, g.Blocks, g.Turnovers, g.Fouls,
		); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy row %s: %w", g.Date, err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("close copy: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	p.Logger.Info("postgres: appended", "rows", len(rows))
	return nil
}
