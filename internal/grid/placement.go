package grid

import (
	"fmt"

	"peeler.dev/peeler/internal/domain"
)

// Placement is a validated, not-yet-committed word placement: the result
// of CanPlace, consumed by Place.
type Placement struct {
	Start     domain.Cell
	Direction domain.Direction
	Word      domain.Word

	newlyWritten []domain.Cell
}

// Rejection explains why CanPlace refused a placement. A plain value, not
// an exception — the solver branches on it and continues, per spec §7
// ("no internal exceptions used for control flow").
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

func reject(format string, args ...any) (*Placement, *Rejection) {
	return nil, &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// CanPlace validates that placing word at start along d satisfies every
// grid invariant without mutating the grid (spec §4.2):
//   (i)   every overlap cell agrees with word's letter
//   (ii)  the two end-neighbor cells (before start, after end) are empty
//   (iii) every newly written cell's perpendicular run is length 1 or a
//         dictionary word
//   (iv)  the placement overlaps an existing occupied cell, unless the
//         grid is empty
func (g *Grid) CanPlace(word domain.Word, start domain.Cell, d domain.Direction, dict dictLookup) (*Placement, *Rejection) {
	if len(word) < 2 {
		return reject("word %q shorter than 2 letters", word)
	}

	before := start.Step(d, -1)
	after := start.Step(d, len(word))
	if _, ok := g.cells[before]; ok {
		return reject("cell before start %v is occupied", before)
	}
	if _, ok := g.cells[after]; ok {
		return reject("cell after end %v is occupied", after)
	}

	var newlyWritten []domain.Cell
	overlaps := 0
	for i, l := range word {
		c := start.Step(d, i)
		if existing, ok := g.cells[c]; ok {
			if existing != l {
				return reject("cell %v holds %q, word %q wants %q", c, existing, word, l)
			}
			overlaps++
			continue
		}
		newlyWritten = append(newlyWritten, c)
	}

	if !g.IsEmpty() && overlaps == 0 {
		return reject("word %q does not overlap the existing grid", word)
	}

	// Write provisionally so perpendicular runs can be read through the
	// new letters, then validate, then roll back on failure. This mirrors
	// the reference implementation's write-then-undo-on-conflict shape.
	for _, c := range newlyWritten {
		idx := -1
		for i := 0; i < len(word); i++ {
			if start.Step(d, i) == c {
				idx = i
				break
			}
		}
		g.cells[c] = word[idx]
	}

	perp := d.Perpendicular()
	for _, c := range newlyWritten {
		run := g.perpendicularRun(c, perp)
		if len(run) > 1 {
			w := runWord(g, run)
			if !dict.Contains(w) {
				for _, nc := range newlyWritten {
					delete(g.cells, nc)
				}
				return reject("perpendicular run %q through %v is not a word", w, c)
			}
		}
	}

	for _, c := range newlyWritten {
		delete(g.cells, c)
	}

	return &Placement{Start: start, Direction: d, Word: word, newlyWritten: newlyWritten}, nil
}

// Place commits a validated Placement and returns the multiset of
// letters actually drawn from the hand: only newly written cells count,
// overlap cells reuse letters already on the board (spec §4.2).
func (g *Grid) Place(p *Placement) domain.Multiset {
	var consumed domain.Multiset
	for _, c := range p.newlyWritten {
		idx := indexOf(p.Word, p.Start, p.Direction, c)
		l := p.Word[idx]
		g.cells[c] = l
		g.extendBounds(c)
		consumed[l.Index()]++
	}
	pw := domain.PlacedWord{
		Start:        p.Start,
		Direction:    p.Direction,
		Word:         p.Word,
		NewlyWritten: append([]domain.Cell(nil), p.newlyWritten...),
	}
	g.placedWords = append(g.placedWords, pw)
	return consumed
}

func indexOf(word domain.Word, start domain.Cell, d domain.Direction, c domain.Cell) int {
	for i := range word {
		if start.Step(d, i) == c {
			return i
		}
	}
	return -1
}

// Undo removes the most recently placed word, clearing only the cells it
// newly wrote, and returns the removed placement. The grid returns
// bit-exact to its state immediately before that placement (spec §4.2,
// the key testable property). Removal is by position (last element of
// the stack), never by searching for an equal value — the reference
// implementation's remove-by-identity bug (two placements with identical
// word/position/direction deleting the wrong one) cannot occur here.
func (g *Grid) Undo() (domain.PlacedWord, bool) {
	if len(g.placedWords) == 0 {
		return domain.PlacedWord{}, false
	}
	last := g.placedWords[len(g.placedWords)-1]
	g.placedWords = g.placedWords[:len(g.placedWords)-1]
	for _, c := range last.NewlyWritten {
		delete(g.cells, c)
	}
	g.recomputeBounds()
	return last, true
}

// Anchors returns every empty cell 4-adjacent to an occupied cell, plus
// the origin when the grid is empty (spec §4.2).
func (g *Grid) Anchors() []domain.Cell {
	if g.IsEmpty() {
		return []domain.Cell{{Row: 0, Col: 0}}
	}
	seen := make(map[domain.Cell]bool)
	var out []domain.Cell
	deltas := []domain.Cell{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}
	for c := range g.cells {
		for _, d := range deltas {
			n := domain.Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
			if _, occupied := g.cells[n]; occupied || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
