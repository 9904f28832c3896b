// Package solver implements the core backtracking placement search:
// dead-letter pruning, seed selection, and the pivot-driven recursive
// search (every new word passes through an occupied cell) with snapshot
// dedup and a best-so-far quality metric (spec
// §4.4).
package solver

import (
	"context"
	"time"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
	"peeler.dev/peeler/internal/snapshot"
)

// BacktrackSolver is the sole ports.CoreSolver implementation (spec §9:
// "the grid a single implementation" — likewise here for the solver).
type BacktrackSolver struct {
	Canon domain.Canonicalization
}

// NewBacktrackSolver returns a solver that canonicalizes snapshot keys
// per canon.
func NewBacktrackSolver(canon domain.Canonicalization) *BacktrackSolver {
	return &BacktrackSolver{Canon: canon}
}

var _ ports.CoreSolver = (*BacktrackSolver)(nil)

// Solve arranges a maximal subset of hand into a single connected grid
// satisfying every cross-word invariant, or returns the empty grid on
// total failure. It never errors on an unsolvable hand — that is a
// normal result reported through Unplaced (spec §7).
func (s *BacktrackSolver) Solve(ctx context.Context, hand domain.Multiset, dict ports.Dictionary, budget ports.Budget) (ports.Result, error) {
	start := time.Now()
	nodes := 0

	dead := DeadLetters(hand, dict)
	working := hand.Sub(dead)

	best := grid.New()
	bestQuality := quality{}
	exhausted := false

	store := snapshot.New()
	g := grid.New()

	var dfs func(remaining domain.Multiset) bool
	dfs = func(remaining domain.Multiset) bool {
		nodes++
		if ctx.Err() != nil || budget.Expired() {
			exhausted = true
			return false
		}

		q := quality{placed: g.LetterCount(), wordsUsed: len(g.PlacedWords()), area: g.BoundingArea()}
		if q.better(bestQuality) {
			bestQuality = q
			best = g.Clone()
		}

		if remaining.Size() == 0 {
			return true
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

						key := g.SnapshotKey(s.Canon)
						if store.SeenOrRecord(key) {
							g.Undo()
							continue
						}

						if dfs(after) {
							return true
						}
						g.Undo()

						if ctx.Err() != nil || budget.Expired() {
							exhausted = true
							return false
						}
					}
				}
			}
		}
		return false
	}

	seeds := dict.WordsFrom(working, nil)
	sortSeeds(seeds)

	solved := false
	for _, seed := range seeds {
		if ctx.Err() != nil || budget.Expired() {
			exhausted = true
			break
		}
		placement, rej := g.CanPlace(seed, domain.Cell{}, domain.Horizontal, dict)
		if rej != nil {
			continue
		}
		consumed := g.Place(placement)
		remaining := working.Sub(consumed)
		store.Record(g.SnapshotKey(s.Canon))

		if dfs(remaining) {
			solved = true
			break
		}
		g.Undo()
	}
	if solved {
		best = g
	}

	unplaced := hand.Sub(best.LetterMultiset())

	return ports.Result{
		Grid:     best,
		Unplaced: unplaced,
		Stats: ports.Stats{
			Nodes:           nodes,
			Duration:        time.Since(start),
			BudgetExhausted: exhausted && !solved,
			Strategy:        "core",
		},
	}, nil
}

