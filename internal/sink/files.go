// Package sink writes normalized game logs to local files and appends the
// new ones to a remote store.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
)

// FileName is "<full name lowercased, spaces as underscores>_career_gamelog.<ext>".
func FileName(fullName, ext string) string {
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(fullName), " ", "_"))
	return base + "_career_gamelog." + ext
}

// WriteCSV writes a header row plus one row per record.
func WriteCSV(w io.Writer, recs []gamelog.GameRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(gamelog.Columns); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes a title line, a separator, and the records as a table.
func WriteText(w io.Writer, fullName string, recs []gamelog.GameRecord) error {
	title := fmt.Sprintf("Career Game Log for %s", fullName)
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", 80)); err != nil {
		return err
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = r.Fields()
	}
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(gamelog.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(rows)
	tw.Render()
	return nil
}

// SaveCSV overwrites dir/FileName(fullName, "csv") and returns its path.
func SaveCSV(dir, fullName string, recs []gamelog.GameRecord) (string, error) {
	return save(dir, FileName(fullName, "csv"), func(w io.Writer) error {
		return WriteCSV(w, recs)
	})
}

// SaveText overwrites dir/FileName(fullName, "txt") and returns its path.
func SaveText(dir, fullName string, recs []gamelog.GameRecord) (string, error) {
	return save(dir, FileName(fullName, "txt"), func(w io.Writer) error {
		return WriteText(w, fullName, recs)
	})
}

func save(dir, name string, write func(io.Writer) error) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
