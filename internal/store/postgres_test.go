package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db, nil), mock
}

func TestPostgresEnsurePlayer(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec(`INSERT INTO players .* ON CONFLICT \(player_id\) DO NOTHING`).
		WithArgs(int64(2544), "LeBron", "James").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := p.EnsurePlayer(context.Background(), players.Player{ID: 2544, FirstName: "LeBron", LastName: "James"}); err != nil {
		t.Fatalf("EnsurePlayer: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresExistingKeys(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectQuery(`SELECT to_char\(game_date, 'YYYY-MM-DD'\) FROM game_logs WHERE player_id = \$1`).
		WithArgs(int64(2544)).
		WillReturnRows(sqlmock.NewRows([]string{"d"}).AddRow("2024-01-02").AddRow("2024-01-04"))

	keys, err := p.ExistingKeys(context.Background(), 2544)
	if err != nil {
		t.Fatalf("ExistingKeys: %v", err)
	}
	if len(keys) != 2 || !keys.Has(gamelog.Key{PlayerID: 2544, Date: "2024-01-04"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func testRows() []reconcile.Row {
	return []reconcile.Row{
		{ID: 11, GameRecord: gamelog.GameRecord{PlayerID: 2544, Season: "2023-24", Date: "2024-01-02", Team: "LAL", HomeGame: gamelog.Home, Opponent: "BOS", Result: "W"}},
		{ID: 12, GameRecord: gamelog.GameRecord{PlayerID: 2544, Season: "2023-24", Date: "2024-01-04", Team: "LAL", HomeGame: gamelog.Away, Opponent: "NYK", Result: "L"}},
	}
}

func TestPostgresAppendGameLogs_Commits(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`COPY "game_logs"`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := p.AppendGameLogs(context.Background(), testRows()); err != nil {
		t.Fatalf("AppendGameLogs: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresAppendGameLogs_RollsBack(t *testing.T) {
	p, mock := newMockPostgres(t)
	boom := errors.New("disk full")
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`COPY "game_logs"`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnError(boom)
	mock.ExpectRollback()

	err := p.AppendGameLogs(context.Background(), testRows())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresAppendGameLogs_EmptyIsNoop(t *testing.T) {
	p, mock := newMockPostgres(t)
	if err := p.AppendGameLogs(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresEnsureSchema(t *testing.T) {
	p, mock := newMockPostgres(t)
	for range schemaSQL {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := p.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresSchema_UniqueGameKey(t *testing.T) {
	last := schemaSQL[len(schemaSQL)-1]
	if !strings.Contains(last, "CREATE UNIQUE INDEX") || !strings.Contains(last, "(player_id, game_date)") {
		t.Fatalf("game_logs must enforce one row per player and date: %s", last)
	}
}
