package incremental

import (
	"context"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
	"peeler.dev/peeler/internal/solver"
)

// PartialRestructure is strategy tier 2 (spec §4.5, 30% budget): pop the
// last 1-3 placed words, return their freshly-used letters to the hand
// together with the added letters, and try to re-place everything onto
// the reduced grid. The first k that succeeds wins.
type PartialRestructure struct{}

func (PartialRestructure) Name() string { return "partial_restructure" }

var _ ports.IncrementalStrategy = PartialRestructure{}

func (PartialRestructure) Attempt(ctx context.Context, prevGrid *grid.Grid, prevHand, added domain.Multiset, dict ports.Dictionary, budget ports.Budget) (ports.Result, bool, error) {
	maxK := len(prevGrid.PlacedWords())
	if maxK > 3 {
		maxK = 3
	}

	for k := 1; k <= maxK; k++ {
		if ctx.Err() != nil || budget.Expired() {
			return ports.Result{}, false, nil
		}

		g := prevGrid.Clone()
		var freed []domain.Letter
		for j := 0; j < k; j++ {
			pws := g.PlacedWords()
			last := pws[len(pws)-1]
			for _, c := range last.NewlyWritten {
				if l, ok := g.At(c); ok {
					freed = append(freed, l)
				}
			}
			g.Undo()
		}

		combined := domain.NewMultiset(freed).Add(added)
		if solver.Extend(ctx, g, combined, dict, budget) {
			return ports.Result{
				Grid:     g,
				Unplaced: domain.Multiset{},
				Stats:    ports.Stats{Strategy: "partial_restructure"},
			}, true, nil
		}
	}

	return ports.Result{}, false, nil
}
