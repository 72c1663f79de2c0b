// Package store holds the remote append-only game-log tables. Every backend
// keeps a players table (insert-if-absent) and a game_logs table keyed by
// (player id, game date) that is only ever appended to.
package store

import (
	"context"

	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
)

const (
	KindDynamo   = "dynamodb"
	KindPostgres = "postgres"
	KindLake     = "lake"
)

type Store interface {
	// EnsurePlayer inserts the player row unless one already exists.
	EnsurePlayer(ctx context.Context, p players.Player) error
	// ExistingKeys returns the (player id, date) keys already stored.
	ExistingKeys(ctx context.Context, playerID int64) (reconcile.KeySet, error)
	// AppendGameLogs writes rows in a single operation.
	AppendGameLogs(ctx context.Context, rows []reconcile.Row) error
}
