package solver

import (
	"context"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
)

// Extend tries to place every letter in remaining onto grid g, mutating
// g in place via the same place/undo discipline Solve uses. When g is
// empty it first seeds a word horizontally at the origin, as Solve does.
// It reports success only when all of remaining was placed; unlike Solve
// it tracks no best-so-far, since a caller that wants a best-effort
// result wants the full search, not this one.
//
// This is the incremental solver's workhorse (spec §4.5's "run §4.4
// starting from the reduced grid"), grounded on the reference
// implementation's _mini_backtrack: a lighter version of the main
// recursive search with no snapshot dedup, used only for small,
// already-mostly-solved grids.
func Extend(ctx context.Context, g *grid.Grid, remaining domain.Multiset, dict ports.Dictionary, budget ports.Budget) bool {
	if ctx.Err() != nil || budget.Expired() {
		return false
	}
	if remaining.Size() == 0 {
		return true
	}
	if g.IsEmpty() {
		for _, seed := range dict.WordsFrom(remaining, nil) {
			placement, rej := g.CanPlace(seed, domain.Cell{}, domain.Horizontal, dict)
			if rej != nil {
				continue
			}
			consumed := g.Place(placement)
			if Extend(ctx, g, remaining.Sub(consumed), dict, budget) {
				return true
			}
			g.Undo()
		}
		return false
	}

	pivots := make([]pivot, 0)
	for _, occ := range g.OccupiedCells() {
		pivots = append(pivots, pivot{occ})
	}
	sortPivots(pivots)

	for _, p := range pivots {
		words := candidatesAtPivot(remaining, p, dict)
		sortCandidates(words, remaining.Size())

		for _, w := range words {
			for i, l := range w {
				if l != p.Letter {
					continue
				}
				for _, d := range []domain.Direction{domain.Horizontal, domain.Vertical} {
					startCell := p.Cell.Step(d, -i)
					placement, rej := g.CanPlace(w, startCell, d, dict)
					if rej != nil {
						continue
					}
					consumed := g.Place(placement)
					if !remaining.ContainsAll(consumed) {
						g.Undo()
						continue
					}
					after := remaining.Sub(consumed)
					if Extend(ctx, g, after, dict, budget) {
						return true
					}
					g.Undo()
					if ctx.Err() != nil || budget.Expired() {
						return false
					}
				}
			}
		}
	}
	return false
}
