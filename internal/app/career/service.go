package career

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tyler180/hoops-gamelogs/internal/fetch"
	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
	"github.com/tyler180/hoops-gamelogs/internal/sink"
	"github.com/tyler180/hoops-gamelogs/internal/store"
	"github.com/tyler180/hoops-gamelogs/internal/summary"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoRemote       = errors.New("no remote store configured")
)

// StoreOpener returns the store for a remote kind and a func that releases it.
type StoreOpener func(ctx context.Context, kind string) (store.Store, func(), error)

type Request struct {
	Name string
	// FromSeason and ToSeason are start years; zero means first/current.
	FromSeason int
	ToSeason   int
	WriteCSV   bool
	WriteText  bool
	Upload     bool
	Remote     string
	OutputDir  string
}

type Result struct {
	RunID     string
	Player    players.Player
	Records   []gamelog.GameRecord
	Skipped   int
	Files     []string
	Upload    sink.UploadStats
	UploadErr error
	Summary   summary.Career
}

type Service struct {
	Players   *players.Directory
	Fetcher   *fetch.Fetcher
	OpenStore StoreOpener
	IDs       reconcile.IDGenerator
	Logger    *slog.Logger

	now func() time.Time
}

func NewService(dir *players.Directory, f *fetch.Fetcher, open StoreOpener, ids reconcile.IDGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Players: dir, Fetcher: f, OpenStore: open, IDs: ids, Logger: logger, now: time.Now}
}

// Run fetches, normalizes, and persists one player's career. Files are
// written before the upload and survive an upload failure, which is
// reported on Result.UploadErr rather than as the returned error.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	p, ok := s.Players.Find(req.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, req.Name)
	}
	res := &Result{RunID: uuid.NewString(), Player: p}
	log := s.Logger.With("run_id", res.RunID, "player_id", p.ID)
	log.Info("career: fetching", "player", p.FullName)

	from, to := s.seasonRange(req)
	raw, err := s.Fetcher.Fetch(ctx, p.ID, fetch.SeasonLabels(from, to))
	if err != nil {
		return res, err
	}
	res.Records, res.Skipped = gamelog.NormalizeAll(p.ID, raw)
	if res.Skipped > 0 {
		log.Warn("career: rows skipped", "skipped", res.Skipped)
	}
	if len(res.Records) == 0 {
		return res, fetch.ErrNoData
	}
	res.Summary = summary.Compute(res.Records)

	if req.WriteCSV {
		path, err := sink.SaveCSV(req.OutputDir, p.FullName, res.Records)
		if err != nil {
			return res, fmt.Errorf("save csv: %w", err)
		}
		res.Files = append(res.Files, path)
		log.Info("career: saved", "path", path)
	}
	if req.WriteText {
		path, err := sink.SaveText(req.OutputDir, p.FullName, res.Records)
		if err != nil {
			return res, fmt.Errorf("save text: %w", err)
		}
		res.Files = append(res.Files, path)
		log.Info("career: saved", "path", path)
	}

	if req.Upload {
		res.Upload, res.UploadErr = s.upload(ctx, req.Remote, p, res.Records)
		if res.UploadErr != nil {
			log.Error("career: upload failed", "remote", req.Remote, "err", res.UploadErr)
		}
	}
	return res, nil
}

func (s *Service) upload(ctx context.Context, kind string, p players.Player, recs []gamelog.GameRecord) (sink.UploadStats, error) {
	if s.OpenStore == nil {
		return sink.UploadStats{}, ErrNoRemote
	}
	st, release, err := s.OpenStore(ctx, kind)
	if err != nil {
		return sink.UploadStats{}, fmt.Errorf("open %s store: %w", kind, err)
	}
	if release != nil {
		defer release()
	}
	return sink.NewUploader(st, s.IDs, s.Logger).Upload(ctx, p, recs)
}

func (s *Service) seasonRange(req Request) (int, int) {
	from, to := req.FromSeason, req.ToSeason
	if from <= 0 {
		from = fetch.FirstSeason
	}
	if to <= 0 {
		now := time.Now
		if s.now != nil {
			now = s.now
		}
		to = now().Year()
	}
	return from, to
}
