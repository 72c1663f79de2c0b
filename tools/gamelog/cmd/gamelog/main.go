// Command gamelog builds NBA career game logs.
//
// Usage:
//
//	gamelog career "LeBron James" --csv --text
//	gamelog career "LeBron James" --upload --remote postgres --from 2003 --to 2010
//	gamelog career "Nikola Jokic" --source bref --bref-slug jokicni01
//	gamelog players find jordan
//	gamelog players export --season 2024-25
//	gamelog interactive
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tyler180/hoops-gamelogs/internal/app/career"
	"github.com/tyler180/hoops-gamelogs/internal/config"
	"github.com/tyler180/hoops-gamelogs/internal/fetch"
	"github.com/tyler180/hoops-gamelogs/internal/nba"
	"github.com/tyler180/hoops-gamelogs/internal/players"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "gamelog",
		Short:         "NBA player career game-log generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(careerCmd())
	root.AddCommand(playersCmd())
	root.AddCommand(interactiveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type runFlags struct {
	csv, text, upload bool
	remote            string
	from, to          int
	source            string
	brefSlug          string
	outDir            string
}

func (f *runFlags) register(cmd *cobra.Command, withOutputs bool) {
	if withOutputs {
		cmd.Flags().BoolVar(&f.csv, "csv", true, "write <name>_career_gamelog.csv")
		cmd.Flags().BoolVar(&f.text, "text", false, "write <name>_career_gamelog.txt")
		cmd.Flags().BoolVar(&f.upload, "upload", false, "append new games to the remote table")
	}
	cmd.Flags().StringVar(&f.remote, "remote", "", "remote store: dynamodb|postgres|lake (default $REMOTE_STORE)")
	cmd.Flags().IntVar(&f.from, "from", 0, "first season start year (default 1946)")
	cmd.Flags().IntVar(&f.to, "to", 0, "last season start year (default current year)")
	cmd.Flags().StringVar(&f.source, "source", "", "game-log source: stats|bref (default $GAMELOG_SOURCE)")
	cmd.Flags().StringVar(&f.brefSlug, "bref-slug", "", "basketball-reference player id, e.g. jamesle01")
	cmd.Flags().StringVar(&f.outDir, "out", "", "output directory (default $OUTPUT_DIR)")
}

type env struct {
	cfg    config.Config
	logger *slog.Logger
	dir    *players.Directory
}

func setup(needPlayers bool) (*env, error) {
	cfg := config.Load()
	e := &env{cfg: cfg, logger: cfg.Logger()}
	if needPlayers {
		dir, err := players.Load(cfg.PlayersFile)
		if err != nil {
			return nil, fmt.Errorf("load players (run `gamelog players export` first): %w", err)
		}
		e.dir = dir
	}
	return e, nil
}

func (e *env) service(f *runFlags, name string) (*career.Service, error) {
	slugs := map[int64]string{}
	if f.brefSlug != "" && name != "" {
		if p, ok := e.dir.Find(name); ok {
			slugs[p.ID] = f.brefSlug
		}
	}
	src, err := career.NewSource(e.cfg, config.PickStr(f.source, e.cfg.Source), e.dir, slugs, e.logger)
	if err != nil {
		return nil, err
	}
	return career.Build(e.cfg, e.dir, src, e.logger), nil
}

func (e *env) request(f *runFlags) career.Request {
	return career.Request{
		FromSeason: f.from,
		ToSeason:   f.to,
		WriteCSV:   f.csv,
		WriteText:  f.text,
		Upload:     f.upload,
		Remote:     config.PickStr(f.remote, e.cfg.Remote),
		OutputDir:  config.PickStr(f.outDir, e.cfg.OutputDir),
	}
}

func careerCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "career <player name>",
		Short: "Fetch a player's career game log and write it out",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			e, err := setup(true)
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			svc, err := e.service(&f, name)
			if err != nil {
				return err
			}
			req := e.request(&f)
			req.Name = name

			start := time.Now()
			res, err := svc.Run(ctx, req)
			career.Report(cmd.OutOrStdout(), res, err)
			if err != nil {
				if errors.Is(err, career.ErrPlayerNotFound) || errors.Is(err, fetch.ErrNoData) {
					return nil
				}
				return err
			}
			e.logger.Info("career: done", "run_id", res.RunID, "games", len(res.Records), "duration", time.Since(start).Round(time.Second))
			if res.UploadErr != nil {
				return res.UploadErr
			}
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func playersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Look up or export the player reference list",
	}

	find := &cobra.Command{
		Use:   "find <name>",
		Short: "List players whose name contains <name>",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(true)
			if err != nil {
				return err
			}
			matches := e.dir.FindAll(strings.Join(args, " "))
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No players found.")
				return nil
			}
			for _, p := range matches {
				active := "No"
				if p.IsActive {
					active = "Yes"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8d %-30s active=%s\n", p.ID, p.FullName, active)
			}
			return nil
		},
	}

	var season, outDir string
	export := &cobra.Command{
		Use:   "export",
		Short: "Download the player index to available_players.json and .txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			e, err := setup(false)
			if err != nil {
				return err
			}
			if season == "" {
				season = fetch.SeasonLabel(time.Now().Year() - 1)
			}
			client := nba.NewClient(nba.DefaultBaseURL, e.cfg.HTTPTimeout, e.logger)
			paths, err := career.ExportPlayers(ctx, client, season, config.PickStr(outDir, e.cfg.OutputDir))
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", p)
			}
			return nil
		},
	}
	export.Flags().StringVar(&season, "season", "", "season label for the index, e.g. 2024-25")
	export.Flags().StringVar(&outDir, "out", "", "output directory (default $OUTPUT_DIR)")

	cmd.AddCommand(find, export)
	return cmd
}

func interactiveCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Prompt for player names until 'quit'",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			e, err := setup(true)
			if err != nil {
				return err
			}
			svc, err := e.service(&f, "")
			if err != nil {
				return err
			}
			return career.Interactive(ctx, svc, cmd.InOrStdin(), cmd.OutOrStdout(), e.request(&f))
		},
	}
	f.register(cmd, false)
	return cmd
}
