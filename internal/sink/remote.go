package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
	"github.com/tyler180/hoops-gamelogs/internal/store"
)

// Uploader appends the records a store does not have yet.
type Uploader struct {
	Store  store.Store
	IDs    reconcile.IDGenerator
	Logger *slog.Logger
}

// UploadStats counts one upload. Existing is the number of candidates
// whose key was already stored remotely.
type UploadStats struct {
	Candidates int
	Existing   int
	Appended   int
}

func NewUploader(s store.Store, ids reconcile.IDGenerator, logger *slog.Logger) *Uploader {
	if ids == nil {
		ids = reconcile.RandomIDs{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{Store: s, IDs: ids, Logger: logger}
}

// Upload makes sure the player row exists, drops records whose key is
// already stored, and appends the rest in one call. Nothing new means no
// append call at all. Any failure comes back as a single error.
func (u *Uploader) Upload(ctx context.Context, p players.Player, recs []gamelog.GameRecord) (UploadStats, error) {
	st := UploadStats{Candidates: len(recs)}

	if err := u.Store.EnsurePlayer(ctx, p); err != nil {
		return st, fmt.Errorf("ensure player: %w", err)
	}
	existing, err := u.Store.ExistingKeys(ctx, p.ID)
	if err != nil {
		return st, fmt.Errorf("read existing keys: %w", err)
	}
	fresh := reconcile.NewRecords(recs, existing)
	st.Existing = len(recs) - len(fresh)
	if len(fresh) == 0 {
		u.Logger.Info("upload: nothing new", "player_id", p.ID, "candidates", len(recs))
		return st, nil
	}
	if err := u.Store.AppendGameLogs(ctx, reconcile.AssignIDs(fresh, u.IDs)); err != nil {
		return st, fmt.Errorf("append game logs: %w", err)
	}
	st.Appended = len(fresh)
	u.Logger.Info("upload: appended", "player_id", p.ID, "new", st.Appended, "skipped", len(recs)-st.Appended)
	return st, nil
}
