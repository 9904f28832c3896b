// Package incremental implements the three-tier cascade that updates an
// already-solved grid after new letters arrive: quick attach, partial
// restructure, full re-solve (spec §4.5), tried in that order under a
// shared wall-clock budget.
package incremental

import (
	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
)

// validPlacements finds every way word can legally land on g: for each
// occupied cell whose letter matches some position in word, try both
// directions through it. Mirrors the reference implementation's
// get_valid_placements, which tries every existing-cell intersection
// rather than restricting to an augmented-budget word list — this
// package deals in short, already-dictionary-filtered word lists, so
// the exhaustive geometric search is cheap.
func validPlacements(g *grid.Grid, word domain.Word, dict ports.Dictionary) []*grid.Placement {
	if g.IsEmpty() {
		if p, rej := g.CanPlace(word, domain.Cell{}, domain.Horizontal, dict); rej == nil {
			return []*grid.Placement{p}
		}
		return nil
	}
	var out []*grid.Placement
	for _, occ := range g.OccupiedCells() {
		for i, l := range word {
			if l != occ.Letter {
				continue
			}
			for _, d := range []domain.Direction{domain.Horizontal, domain.Vertical} {
				start := occ.Cell.Step(d, -i)
				if p, rej := g.CanPlace(word, start, d, dict); rej == nil {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

func filterByLength(words []domain.Word, min, max int) []domain.Word {
	out := make([]domain.Word, 0, len(words))
	for _, w := range words {
		if len(w) >= min && len(w) <= max {
			out = append(out, w)
		}
	}
	return out
}
