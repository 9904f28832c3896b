package incremental

import (
	"context"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
	"peeler.dev/peeler/internal/solver"
)

// Solver runs the three-tier cascade in order, splitting budget 20%/30%
// across tiers 1 and 2, with whatever remains going to tier 3 (spec
// §4.5).
type Solver struct {
	Strategies []ports.IncrementalStrategy
}

var _ ports.IncrementalSolver = (*Solver)(nil)

// NewSolver wires the default three-tier cascade around core.
func NewSolver(core *solver.BacktrackSolver) *Solver {
	return &Solver{
		Strategies: []ports.IncrementalStrategy{
			QuickAttach{},
			PartialRestructure{},
			FullResolve{Core: core},
		},
	}
}

// Peel updates prevGrid after added arrives, trying each strategy tier
// in turn and stopping at the first full success. If all tiers fail, it
// returns the best-effort grid the last attempted tier produced
// (falling back to prevGrid unchanged if no tier produced anything)
// together with the unplaced letters (spec §4.5).
func (s *Solver) Peel(ctx context.Context, prevGrid *grid.Grid, prevHand, added domain.Multiset, dict ports.Dictionary, budget ports.Budget) (ports.Result, error) {
	budgetA, budgetB, budgetC := budget.Split(0.20, 0.30)
	tierBudgets := []ports.Budget{budgetA, budgetB, budgetC}

	fallback := ports.Result{
		Grid:     prevGrid,
		Unplaced: added,
		Stats:    ports.Stats{Strategy: "failed"},
	}

	// Tier 3 (full re-solve) is only worth its cost when enough unplaced
	// letters remain to justify discarding the grid — one or two stray
	// letters are cheaper to leave to tiers 1 and 2. Grounded on the reference implementation's identical
	// unplaced_count >= 3 gate.
	unplacedBeforeTierThree := added.Size()

	for i, strat := range s.Strategies {
		if _, ok := strat.(FullResolve); ok && unplacedBeforeTierThree < 3 {
			continue
		}
		result, ok, err := strat.Attempt(ctx, prevGrid, prevHand, added, dict, tierBudgets[i])
		if err != nil {
			return ports.Result{}, err
		}
		if result.Grid != nil {
			fallback = result
			fallback.Stats.Strategy = strat.Name()
		}
		if ok {
			result.Stats.Strategy = strat.Name()
			return result, nil
		}
	}

	fallback.Stats.BudgetExhausted = budget.Expired()
	return fallback, nil
}
