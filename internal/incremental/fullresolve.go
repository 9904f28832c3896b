package incremental

import (
	"context"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
	"peeler.dev/peeler/internal/solver"
)

// FullResolve is strategy tier 3 (spec §4.5, remaining budget): discard
// the existing grid entirely and run the core solver on the whole hand
// from scratch.
type FullResolve struct {
	Core *solver.BacktrackSolver
}

func (FullResolve) Name() string { return "full_resolve" }

var _ ports.IncrementalStrategy = FullResolve{}

func (fr FullResolve) Attempt(ctx context.Context, prevGrid *grid.Grid, prevHand, added domain.Multiset, dict ports.Dictionary, budget ports.Budget) (ports.Result, bool, error) {
	result, err := fr.Core.Solve(ctx, prevHand.Add(added), dict, budget)
	if err != nil {
		return ports.Result{}, false, err
	}
	result.Stats.Strategy = "full_resolve"
	return result, result.Unplaced.Size() == 0, nil
}
