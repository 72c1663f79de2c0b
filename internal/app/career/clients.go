package career

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tyler180/hoops-gamelogs/internal/ath"
	"github.com/tyler180/hoops-gamelogs/internal/bref"
	"github.com/tyler180/hoops-gamelogs/internal/config"
	"github.com/tyler180/hoops-gamelogs/internal/fetch"
	"github.com/tyler180/hoops-gamelogs/internal/nba"
	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
	"github.com/tyler180/hoops-gamelogs/internal/store"
)

// NewSource builds the game-log source named by kind ("stats" or "bref").
func NewSource(cfg config.Config, kind string, dir *players.Directory, slugs map[int64]string, logger *slog.Logger) (fetch.Source, error) {
	switch kind {
	case "", config.SourceStats:
		return nba.NewClient(nba.DefaultBaseURL, cfg.HTTPTimeout, logger), nil
	case config.SourceBref:
		return bref.NewSource(bref.DefaultBaseURL, cfg.HTTPTimeout, bref.DirectorySlugs(dir, slugs), logger), nil
	default:
		return nil, fmt.Errorf("unknown source %q", kind)
	}
}

// Build wires a Service from cfg.
func Build(cfg config.Config, dir *players.Directory, src fetch.Source, logger *slog.Logger) *Service {
	f := fetch.New(src, cfg.RequestDelay, logger)
	return NewService(dir, f, OpenStore(cfg, logger), reconcile.GeneratorFor(cfg.RowIDMode), logger)
}

// OpenStore returns a StoreOpener backed by the real AWS and Postgres clients.
// An empty kind falls back to cfg.Remote.
func OpenStore(cfg config.Config, logger *slog.Logger) StoreOpener {
	return func(ctx context.Context, kind string) (store.Store, func(), error) {
		if kind == "" {
			kind = cfg.Remote
		}
		switch kind {
		case store.KindDynamo:
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("aws config: %w", err)
			}
			return store.NewDynamo(dynamodb.NewFromConfig(awsCfg), cfg.PlayersTable, cfg.GameLogsTable, cfg.RequestDelay, logger), nil, nil

		case store.KindPostgres:
			if cfg.PostgresDSN == "" {
				return nil, nil, fmt.Errorf("POSTGRES_DSN is not set")
			}
			pg, err := store.OpenPostgres(ctx, cfg.PostgresDSN, logger)
			if err != nil {
				return nil, nil, err
			}
			if cfg.EnsureSchema {
				if err := pg.EnsureSchema(ctx); err != nil {
					_ = pg.Close()
					return nil, nil, err
				}
			}
			return pg, func() { _ = pg.Close() }, nil

		case store.KindLake:
			if cfg.LakeBucket == "" {
				return nil, nil, fmt.Errorf("LAKE_BUCKET is not set")
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("aws config: %w", err)
			}
			runner := &ath.Runner{
				Client:    athena.NewFromConfig(awsCfg),
				Workgroup: cfg.AthenaWorkgroup,
				Database:  cfg.AthenaDatabase,
				OutputS3:  cfg.AthenaOutputS3,
				Logger:    logger,
			}
			lake := store.NewLake(s3.NewFromConfig(awsCfg), runner, cfg.LakeBucket, cfg.LakePrefix, cfg.AthenaDatabase, logger)
			if cfg.EnsureSchema {
				if err := lake.EnsureTables(ctx); err != nil {
					return nil, nil, err
				}
			}
			return lake, nil, nil

		default:
			return nil, nil, fmt.Errorf("unknown remote %q", kind)
		}
	}
}
