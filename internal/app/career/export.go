package career

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tyler180/hoops-gamelogs/internal/players"
)

// PlayerLister pulls the league-wide player index; *nba.Client satisfies it.
type PlayerLister interface {
	AllPlayers(ctx context.Context, season string) ([]players.Player, error)
}

// ExportPlayers writes available_players.json and available_players.txt
// into dir and returns their paths.
func ExportPlayers(ctx context.Context, src PlayerLister, season, dir string) ([]string, error) {
	list, err := src.AllPlayers(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	// sorted the same way Directory keeps them
	list = players.New(list).All()

	var paths []string
	for _, out := range []struct {
		name  string
		write func(io.Writer, []players.Player) error
	}{
		{"available_players.json", players.WriteJSON},
		{"available_players.txt", players.WriteText},
	} {
		path := filepath.Join(dir, out.name)
		if err := writeFile(path, func(w io.Writer) error { return out.write(w, list) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
