// Package snapshot implements the one-solve-lifetime dedup set the core
// solver consults before accepting a candidate as a new best-so-far
// (spec §4.3): a snapshot key that has already been seen is skipped
// without re-scoring.
package snapshot

import "peeler.dev/peeler/internal/domain"

// Key holds grid.SnapshotKey's 32-byte sha256 digest. Store never
// imports package grid directly (grid already imports domain, and pulling
// grid in here would invert the dependency order spec §2 lays out:
// snapshot sits below solver, which is the only consumer that has both a
// *grid.Grid and a Store in hand), so callers pass the raw digest.
type Key [32]byte

// Store is an append-only set of snapshot keys, scoped to a single solve
// call. Not safe for concurrent use without external synchronization; the
// core solver is single-threaded per solve, so none is needed there.
type Store struct {
	seen map[Key]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{seen: make(map[Key]struct{})}
}

// Seen reports whether key has already been recorded.
func (s *Store) Seen(key []byte) bool {
	_, ok := s.seen[toKey(key)]
	return ok
}

// Record adds key to the set. Recording an already-seen key is a no-op.
func (s *Store) Record(key []byte) {
	s.seen[toKey(key)] = struct{}{}
}

// SeenOrRecord reports whether key was already present, and if not,
// records it — the single-lookup pattern the solver's hot loop uses so a
// candidate grid is hashed once per rejection-or-acceptance decision.
func (s *Store) SeenOrRecord(key []byte) bool {
	k := toKey(key)
	if _, ok := s.seen[k]; ok {
		return true
	}
	s.seen[k] = struct{}{}
	return false
}

// Count returns how many distinct keys have been recorded.
func (s *Store) Count() int { return len(s.seen) }

func toKey(b []byte) Key {
	var k Key
	copy(k[:], b)
	return k
}

// canonicalizer is the subset of *grid.Grid the solver needs to compute a
// dedup key, kept as an interface so this package doesn't import grid.
type canonicalizer interface {
	SnapshotKey(domain.Canonicalization) []byte
}

// KeyOf computes g's snapshot key under canon. A free function rather
// than a Store method: the digest doesn't depend on store state, and
// callers that only want to compute a key (e.g. tests comparing two
// grids) shouldn't need a Store at all.
func KeyOf(g canonicalizer, canon domain.Canonicalization) []byte {
	return g.SnapshotKey(canon)
}
