package bref

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tyler180/hoops-gamelogs/internal/players"
)

// DeriveSlug guesses the usual basketball-reference id: the first five
// letters of the last name, the first two of the first name, then "01".
// Players sharing a prefix get 02, 03... on the site and need an override.
func DeriveSlug(first, last string) string {
	l := letters(last)
	f := letters(first)
	if len(l) > 5 {
		l = l[:5]
	}
	if len(f) > 2 {
		f = f[:2]
	}
	if l == "" {
		return ""
	}
	return l + f + "01"
}

// DirectorySlugs resolves slugs from the reference list, with explicit
// overrides taking precedence.
func DirectorySlugs(dir *players.Directory, overrides map[int64]string) SlugFunc {
	return func(id int64) (string, error) {
		if s, ok := overrides[id]; ok && s != "" {
			return s, nil
		}
		p, ok := dir.Get(id)
		if !ok {
			return "", fmt.Errorf("bref: unknown player %d", id)
		}
		return DeriveSlug(p.FirstName, p.LastName), nil
	}
}

func letters(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
