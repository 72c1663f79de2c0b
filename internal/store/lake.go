package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
	"github.com/tyler180/hoops-gamelogs/internal/materializer"
	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// QueryRunner runs Athena SQL; *ath.Runner satisfies it.
type QueryRunner interface {
	ExecAndWait(ctx context.Context, sql string) (*athenatypes.QueryExecution, error)
	QueryRows(ctx context.Context, sql string) ([][]string, error)
	CountRows(ctx context.Context, sql string) (int64, error)
}

// Lake writes parquet objects to S3 and reads keys back through Athena
// external tables over the same prefix.
type Lake struct {
	S3       S3API
	Athena   QueryRunner
	Bucket   string
	Prefix   string
	Database string
	Logger   *slog.Logger

	newID func() string
}

func NewLake(s3c S3API, athena QueryRunner, bucket, prefix, database string, logger *slog.Logger) *Lake {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lake{
		S3:       s3c,
		Athena:   athena,
		Bucket:   bucket,
		Prefix:   strings.Trim(prefix, "/"),
		Database: database,
		Logger:   logger,
		newID:    uuid.NewString,
	}
}

type lakePlayer struct {
	PlayerID  int64  `parquet:"player_id"`
	FirstName string `parquet:"first_name"`
	LastName  string `parquet:"last_name"`
}

type lakeGameLog struct {
	RowID         int64   `parquet:"row_id"`
	PlayerID      int64   `parquet:"player_id"`
	Season        string  `parquet:"season"`
	GameDate      string  `parquet:"game_date"`
	Team          string  `parquet:"team"`
	HomeGame      string  `parquet:"home_game"`
	Opponent      string  `parquet:"opponent"`
	Result        string  `parquet:"result"`
	Minutes       float64 `parquet:"minutes"`
	Points        int64   `parquet:"points"`
	FGMade        int64   `parquet:"fg_made"`
	FGAttempts    int64   `parquet:"fg_attempts"`
	FGPct         float64 `parquet:"fg_pct"`
	ThreeMade     int64   `parquet:"three_made"`
	ThreeAttempts int64   `parquet:"three_attempts"`
	ThreePct      float64 `parquet:"three_pct"`
	FTMade        int64   `parquet:"ft_made"`
	FTAttempts    int64   `parquet:"ft_attempts"`
	FTPct         float64 `parquet:"ft_pct"`
	Rebounds      int64   `parquet:"rebounds"`
	Assists       int64   `parquet:"assists"`
	Steals        int64   `parquet:"steals"`
	Blocks        int64   `parquet:"blocks"`
	Turnovers     int64   `parquet:"turnovers"`
	Fouls         int64   `parquet:"fouls"`
}

func toLakeGameLog(r reconcile.Row) lakeGameLog {
	g := r.GameRecord
	return lakeGameLog{
		RowID: r.ID, PlayerID: g.PlayerID, Season: g.Season, GameDate: g.Date,
		Team: g.Team, HomeGame: string(g.HomeGame), Opponent: g.Opponent, Result: g.Result,
		Minutes: g.Minutes, Points: int64(g.Points),
		FGMade: int64(g.FGMade), FGAttempts: int64(g.FGAttempts), FGPct: g.FGPct,
		ThreeMade: int64(g.ThreeMade), ThreeAttempts: int64(g.ThreeAttempt), ThreePct: g.ThreePct,
		FTMade: int64(g.FTMade), FTAttempts: int64(g.FTAttempts), FTPct: g.FTPct,
		Rebounds: int64(g.Rebounds), Assists: int64(g.Assists), Steals: int64(g.Steals),
		Blocks: int64(g.Blocks), Turnovers: int64(g.Turnovers), Fouls: int64(g.Fouls),
	}
}

func (l *Lake) key(parts ...string) string {
	if l.Prefix == "" {
		return strings.Join(parts, "/")
	}
	return l.Prefix + "/" + strings.Join(parts, "/")
}

func (l *Lake) location(table string) string {
	return "s3://" + l.Bucket + "/" + l.key(table) + "/"
}

// EnsureTables creates the external tables if they are missing.
func (l *Lake) EnsureTables(ctx context.Context) error {
	for _, ddl := range []string{
		materializer.BuildCreatePlayers(l.Database, l.location(materializer.PlayersTable)),
		materializer.BuildCreateGameLogs(l.Database, l.location(materializer.GameLogsTable)),
	} {
		if _, err := l.Athena.ExecAndWait(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// EnsurePlayer overwrites a per-player object at a fixed key, which leaves
// exactly one row per player however often it runs.
func (l *Lake) EnsurePlayer(ctx context.Context, p players.Player) error {
	key := l.key(materializer.PlayersTable, fmt.Sprintf("player_id=%d.parquet", p.ID))
	rows := []lakePlayer{{PlayerID: p.ID, FirstName: p.FirstName, LastName: p.LastName}}
	body, err := encodeParquet(rows)
	if err != nil {
		return err
	}
	return l.put(ctx, key, body)
}

func (l *Lake) ExistingKeys(ctx context.Context, playerID int64) (reconcile.KeySet, error) {
	rows, err := l.Athena.QueryRows(ctx, materializer.BuildExistingDates(l.Database, playerID))
	if err != nil {
		return nil, fmt.Errorf("existing dates for %d: %w", playerID, err)
	}
	keys := reconcile.NewKeySet()
	for _, r := range rows {
		if len(r) == 0 || r[0] == "" {
			continue
		}
		keys.Add(gamelog.Key{PlayerID: playerID, Date: r[0]})
	}
	return keys, nil
}

// AppendGameLogs writes every row into one new parquet part. A single
// PutObject either lands the whole part or nothing.
func (l *Lake) AppendGameLogs(ctx context.Context, rows []reconcile.Row) error {
	if len(rows) == 0 {
		return nil
	}
	out := make([]lakeGameLog, len(rows))
	for i, r := range rows {
		out[i] = toLakeGameLog(r)
	}
	body, err := encodeParquet(out)
	if err != nil {
		return err
	}
	key := l.key(materializer.GameLogsTable, "part-"+l.newID()+".parquet")
	if err := l.put(ctx, key, body); err != nil {
		return err
	}
	l.Logger.Info("lake: appended", "key", key, "rows", len(rows), "bytes", len(body))

	// The part is already durable; a failed count only costs the log line.
	playerID := rows[0].PlayerID
	stored, err := l.Athena.CountRows(ctx, materializer.BuildCount(l.Database, playerID))
	if err != nil {
		l.Logger.Warn("lake: count after append failed", "player_id", playerID, "err", err)
		return nil
	}
	l.Logger.Info("lake: stored rows", "player_id", playerID, "rows", stored)
	return nil
}

func (l *Lake) put(ctx context.Context, key string, body []byte) error {
	_, err := l.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(l.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/vnd.apache.parquet"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", l.Bucket, key, err)
	}
	return nil
}

func encodeParquet[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewWriter(&buf, parquet.SchemaOf(new(T)), parquet.Compression(&parquet.Snappy))
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("parquet write: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("parquet close: %w", err)
	}
	return buf.Bytes(), nil
}
