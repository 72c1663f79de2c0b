// Package reconcile decides which fetched game records are new relative to a
// remote store and gives them row identifiers.
package reconcile

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
)

// KeySet is the set of composite keys already persisted remotely.
type KeySet map[gamelog.Key]struct{}

// NewKeySet builds a set from keys.
func NewKeySet(keys ...gamelog.Key) KeySet {
	ks := make(KeySet, len(keys))
	for _, k := range keys {
		ks[k] = struct{}{}
	}
	return ks
}

// Add inserts k.
func (ks KeySet) Add(k gamelog.Key) { ks[k] = struct{}{} }

// Has reports whether k is present. A nil set has nothing.
func (ks KeySet) Has(k gamelog.Key) bool {
	_, ok := ks[k]
	return ok
}

// NewRecords returns the candidates whose (player id, date) key is absent
// from remote, in candidate order. No other field takes part in equality.
func NewRecords(candidates []gamelog.GameRecord, remote KeySet) []gamelog.GameRecord {
	out := make([]gamelog.GameRecord, 0, len(candidates))
	for _, c := range candidates {
		if remote.Has(c.Key()) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Row is a record ready for a remote table.
type Row struct {
	ID int64
	gamelog.GameRecord
}

// IDGenerator yields non-negative 63-bit row identifiers.
type IDGenerator interface {
	NextID(k gamelog.Key) int64
}

// RandomIDs draws identifiers at random with no check against identifiers
// already stored. Collisions are possible, if unlikely.
type RandomIDs struct{}

func (RandomIDs) NextID(gamelog.Key) int64 { return rand.Int64() }

// KeyHashIDs derives the identifier from the composite key, so a rerun of the
// same game always produces the same id.
type KeyHashIDs struct{}

func (KeyHashIDs) NextID(k gamelog.Key) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(k.PlayerID))
	h.Write(buf[:])
	h.Write([]byte(k.Date))
	return int64(h.Sum64() &^ (1 << 63))
}

// GeneratorFor maps a ROW_ID_MODE value to a generator; unknown modes get RandomIDs.
func GeneratorFor(mode string) IDGenerator {
	if mode == "hash" {
		return KeyHashIDs{}
	}
	return RandomIDs{}
}

// AssignIDs pairs every record with an identifier from gen.
func AssignIDs(recs []gamelog.GameRecord, gen IDGenerator) []Row {
	rows := make([]Row, len(recs))
	for i, r := range recs {
		rows[i] = Row{ID: gen.NextID(r.Key()), GameRecord: r}
	}
	return rows
}
