package career

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tyler180/hoops-gamelogs/internal/fetch"
	"github.com/tyler180/hoops-gamelogs/internal/summary"
)

// Interactive runs the prompt loop: a full name or "quit", then yes/no
// prompts for the files and the upload. Errors from a run are printed and
// the loop continues; only input errors end it.
func Interactive(ctx context.Context, svc *Service, in io.Reader, out io.Writer, base Request) error {
	sc := bufio.NewScanner(in)
	line := strings.Repeat("-", 50)

	read := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimSpace(sc.Text()), true
	}
	yes := func(prompt string) (bool, bool) {
		ans, ok := read(prompt + " (y/n): ")
		a := strings.ToLower(ans)
		return a == "y" || a == "yes", ok
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nNBA Player Career Game Log Generator\n%s\nEnter 'quit' to exit\n", line)
		name, ok := read("\nEnter player name: ")
		if !ok {
			return sc.Err()
		}
		if strings.EqualFold(name, "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		if name == "" {
			continue
		}

		req := base
		req.Name = name
		if req.WriteCSV, ok = yes("Save CSV file?"); !ok {
			return sc.Err()
		}
		if req.WriteText, ok = yes("Save text file?"); !ok {
			return sc.Err()
		}
		if req.Upload, ok = yes("Upload new games to the remote table?"); !ok {
			return sc.Err()
		}

		fmt.Fprintf(out, "\nSearching for %s...\n", name)
		res, err := svc.Run(ctx, req)
		Report(out, res, err)

		next, ok := read("\nPress Enter to search for another player or type 'quit' to exit...")
		if !ok {
			return sc.Err()
		}
		if strings.EqualFold(next, "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
	}
}

// Report prints the outcome of one Run for a terminal user.
func Report(out io.Writer, res *Result, err error) {
	switch {
	case errors.Is(err, ErrPlayerNotFound):
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	case errors.Is(err, fetch.ErrNoData):
		fmt.Fprintln(out, "No games found for this player.")
		return
	case err != nil:
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	for _, f := range res.Files {
		fmt.Fprintf(out, "Saved career game log to %s\n", f)
	}
	if err := summary.Render(out, res.Summary); err != nil {
		fmt.Fprintf(out, "Error: render summary: %v\n", err)
	}
	if res.UploadErr != nil {
		fmt.Fprintf(out, "\nUpload failed: %v\n", res.UploadErr)
	} else if res.Upload.Candidates > 0 {
		fmt.Fprintf(out, "\nUploaded %d new games (%d already stored)\n", res.Upload.Appended, res.Upload.Existing)
	}
}
