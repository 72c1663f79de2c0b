package players

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON writes list in the same shape Load reads.
func WriteJSON(w io.Writer, list []Player) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(list)
}

// WriteText writes the human-readable roster listing.
func WriteText(w io.Writer, list []Player) error {
	var b strings.Builder
	b.WriteString("Available NBA Players:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	for _, p := range list {
		active := "No"
		if p.IsActive {
			active = "Yes"
		}
		fmt.Fprintf(&b, "Name: %s\nID: %d\nActive: %s\n", p.FullName, p.ID, active)
		b.WriteString(strings.Repeat("-", 30) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
