package players

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Player is one entry of the static reference list.
type Player struct {
	ID        int64  `json:"id"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

// Directory is an immutable name -> identity lookup. Safe for concurrent reads.
type Directory struct {
	list   []Player // sorted by FullName
	norm   []string // normName(list[i].FullName)
	byID   map[int64]int
	byName map[string]int
}

// New builds a Directory from a copy of list.
func New(list []Player) *Directory {
	cp := append([]Player(nil), list...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].FullName < cp[j].FullName })

	d := &Directory{
		list:   cp,
		norm:   make([]string, len(cp)),
		byID:   make(map[int64]int, len(cp)),
		byName: make(map[string]int, len(cp)),
	}
	for i, p := range cp {
		n := normName(p.FullName)
		d.norm[i] = n
		d.byID[p.ID] = i
		if _, taken := d.byName[n]; !taken {
			d.byName[n] = i
		}
	}
	return d
}

// Load reads a JSON reference list from path.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open players list: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a JSON reference list.
func Read(r io.Reader) (*Directory, error) {
	var list []Player
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode players list: %w", err)
	}
	return New(list), nil
}

// Len is the number of players known.
func (d *Directory) Len() int { return len(d.list) }

// All returns a copy of every player, sorted by full name.
func (d *Directory) All() []Player { return append([]Player(nil), d.list...) }

// Get looks a player up by id.
func (d *Directory) Get(id int64) (Player, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Player{}, false
	}
	return d.list[i], true
}

// Find resolves a full name. An exact (normalized) match wins; otherwise the
// first partial match is used, active players first.
func (d *Directory) Find(name string) (Player, bool) {
	if i, ok := d.byName[normName(name)]; ok {
		return d.list[i], true
	}
	matches := d.FindAll(name)
	if len(matches) == 0 {
		return Player{}, false
	}
	return matches[0], true
}

// FindAll returns every player whose normalized full name contains name,
// active players first, then by full name.
func (d *Directory) FindAll(name string) []Player {
	q := normName(name)
	if q == "" {
		return nil
	}
	var out []Player
	for i, n := range d.norm {
		if strings.Contains(n, q) {
			out = append(out, d.list[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsActive && !out[j].IsActive })
	return out
}

var reSpace = regexp.MustCompile(`\s+`)

// normName uppercases, strips accents and punctuation, and collapses spaces.
func normName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	up := strings.ToUpper(s)
	up = strings.NewReplacer(
		".", "", ",", "", "'", "", "`", "", "’", "",
		"-", " ", "–", " ", "—", " ",
		"(", "", ")", "",
	).Replace(up)
	return reSpace.ReplaceAllString(strings.TrimSpace(up), " ")
}
