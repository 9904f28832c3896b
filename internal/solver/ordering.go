package solver

import (
	"sort"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/ports"
)

// sortSeeds orders seed candidates by descending length, then descending
// word difficulty (rarer letters first, so they get placed while the
// board is still wide open), then lexicographically for determinism
// (spec §4.4).
func sortSeeds(words []domain.Word) {
	sort.SliceStable(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		di, dj := domain.WordDifficulty(words[i]), domain.WordDifficulty(words[j])
		if di != dj {
			return di > dj
		}
		return words[i].String() < words[j].String()
	})
}

// sortCandidates orders words considered at a single pivot: shorter
// words first once the remaining hand is small (fewer than 5 letters,
// where finishing off small stray letters matters more than reach),
// longer words first otherwise. Ties break lexicographically.
func sortCandidates(words []domain.Word, remainingSize int) {
	preferShort := remainingSize < 5
	sort.SliceStable(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			if preferShort {
				return len(words[i]) < len(words[j])
			}
			return len(words[i]) > len(words[j])
		}
		return words[i].String() < words[j].String()
	})
}

// pivot pairs an occupied cell with the letter it holds; sortPivots reads
// the letter's difficulty rank for ordering.
type pivot struct {
	domain.PlacedLetter
}

// sortPivots orders pivot cells by descending letter difficulty (the
// hardest-to-satisfy letters get resolved first, pruning deeper), then
// by cell coordinate for determinism.
func sortPivots(pivots []pivot) {
	sort.SliceStable(pivots, func(i, j int) bool {
		di, dj := pivots[i].Letter.Difficulty(), pivots[j].Letter.Difficulty()
		if di != dj {
			return di > dj
		}
		if pivots[i].Cell.Row != pivots[j].Cell.Row {
			return pivots[i].Cell.Row < pivots[j].Cell.Row
		}
		return pivots[i].Cell.Col < pivots[j].Cell.Col
	})
}

// candidatesAtPivot returns every dictionary word that could be placed
// through p: spellable from remaining plus one free copy of p's letter
// (the overlap donates it), and actually containing that letter (spec
// §4.4: "spellable from R ∪ {letter under anchor}, overlaps contribute
// their letter free"). A word overlapping more than one existing letter
// needs more free letters than this augmentation grants; such words are
// still found and placed correctly whenever remaining alone covers the
// gap, matching the reference implementation's same single-letter
// augmentation limit.
func candidatesAtPivot(remaining domain.Multiset, p pivot, dict ports.Dictionary) []domain.Word {
	augmented := remaining.WithLetter(p.Letter)
	l := p.Letter
	return dict.WordsFrom(augmented, &l)
}
