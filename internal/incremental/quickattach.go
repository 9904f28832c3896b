package incremental

import (
	"context"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
)

// QuickAttach is strategy tier 1 (spec §4.5, 20% budget): for each added
// letter, try a short (2-3 letter) dictionary word containing it that
// writes exactly one new cell — everything else in the word overlaps
// letters already on the board.
type QuickAttach struct{}

func (QuickAttach) Name() string { return "quick_attach" }

var _ ports.IncrementalStrategy = QuickAttach{}

func (QuickAttach) Attempt(ctx context.Context, prevGrid *grid.Grid, prevHand, added domain.Multiset, dict ports.Dictionary, budget ports.Budget) (ports.Result, bool, error) {
	g := prevGrid.Clone()
	fullHand := prevHand.Add(added)
	remaining := added

	for remaining.Size() > 0 {
		if ctx.Err() != nil || budget.Expired() {
			return ports.Result{}, false, nil
		}
		progressed := false
		for i := 0; i < 26 && !progressed; i++ {
			if remaining[i] == 0 {
				continue
			}
			c := domain.LetterFromIndex(i)
			candidates := filterByLength(dict.WordsFrom(fullHand, &c), 2, 3)

			for _, w := range candidates {
				placed := false
				for _, p := range validPlacements(g, w, dict) {
					consumed := g.Place(p)
					if consumed.Size() == 1 && consumed[i] == 1 {
						remaining[i]--
						progressed = true
						placed = true
						break
					}
					g.Undo()
				}
				if placed {
					break
				}
			}
		}
		if !progressed {
			return ports.Result{}, false, nil
		}
	}

	return ports.Result{
		Grid:     g,
		Unplaced: domain.Multiset{},
		Stats:    ports.Stats{Strategy: "quick_attach"},
	}, true, nil
}
