// Package ports declares the interfaces the usecase layer wires
// together and the adapters consume, mirroring the teacher's
// ports/usecase separation: nothing in this package imports an adapter.
package ports

import (
	"context"
	"time"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
)

// Stats captures performance and outcome metadata for a solve, peel, or
// swap call. Budget exhaustion and unplaced letters are reported here,
// not as errors (spec §7): a solve that ran out of time or couldn't
// place everything is a normal result, not a failure.
type Stats struct {
	Nodes           int
	Duration        time.Duration
	BudgetExhausted bool
	Strategy        string
}

// Budget bounds a solve by wall clock. The zero value (Deadline is the
// zero time.Time) means unbounded. Wall-clock, not node-count, per the
// resolved Open Question: it mirrors the reference implementation's
// time.time()-based cascade (see DESIGN.md).
type Budget struct {
	Deadline time.Time
}

// Unbounded returns a Budget with no deadline.
func Unbounded() Budget { return Budget{} }

// Expired reports whether the budget's deadline has passed. A zero
// Budget never expires.
func (b Budget) Expired() bool {
	return !b.Deadline.IsZero() && !time.Now().Before(b.Deadline)
}

// Split partitions the remaining time between now and b's deadline into
// three consecutive budgets sized by fraction fracA, fracB, and whatever
// remains, used by the incremental solver's quick-attach / partial-
// restructure / full-resolve cascade (spec §4.5). An unbounded input
// budget yields three unbounded outputs.
func (b Budget) Split(fracA, fracB float64) (a, bB, c Budget) {
	if b.Deadline.IsZero() {
		return Unbounded(), Unbounded(), Unbounded()
	}
	total := time.Until(b.Deadline)
	if total <= 0 {
		return b, b, b
	}
	now := time.Now()
	da := time.Duration(float64(total) * fracA)
	db := time.Duration(float64(total) * fracB)
	return Budget{Deadline: now.Add(da)},
		Budget{Deadline: now.Add(da + db)},
		Budget{Deadline: b.Deadline}
}

// Result is the outcome of solve or peel: the grid found, whichever
// requested letters could not be placed, and stats.
type Result struct {
	Grid     *grid.Grid
	Unplaced domain.Multiset
	Stats    Stats
}

// Dictionary is the read-only word index the solver, swap analyzer, and
// dictionary-source adapters depend on.
type Dictionary interface {
	Contains(word domain.Word) bool
	IsPrefix(prefix domain.Word) bool
	Continuations(prefix domain.Word) []domain.Letter
	WordsFrom(hand domain.Multiset, requireLetter *domain.Letter) []domain.Word
	WordCount() int
}

// CoreSolver places a maximal subset of hand onto a fresh grid.
type CoreSolver interface {
	Solve(ctx context.Context, hand domain.Multiset, dict Dictionary, budget Budget) (Result, error)
}

// IncrementalSolver updates a previously solved grid after new letters
// arrive.
type IncrementalSolver interface {
	Peel(ctx context.Context, prevGrid *grid.Grid, prevHand domain.Multiset, added domain.Multiset, dict Dictionary, budget Budget) (Result, error)
}

// IncrementalStrategy is one tier of the incremental cascade (quick
// attach, partial restructure, full re-solve). incremental.Solver.Peel
// tries each in order and stops at the first that places every added letter.
type IncrementalStrategy interface {
	Name() string
	Attempt(ctx context.Context, prevGrid *grid.Grid, prevHand domain.Multiset, added domain.Multiset, dict Dictionary, budget Budget) (Result, bool, error)
}

// SwapCandidate is one letter's trade-away recommendation.
type SwapCandidate struct {
	Letter domain.Letter
	Score  float64
}

// SwapAnalyzer ranks unplaced hand letters by how good a trade each is.
type SwapAnalyzer interface {
	Scores(ctx context.Context, hand domain.Multiset, g *grid.Grid, dict Dictionary) ([]SwapCandidate, error)
}

// TileClassifier turns a photo of a tile rack into the letters it shows,
// the external collaborator behind the camera-capture flow spec.md's
// adapters describe (see internal/adapters/ocr).
type TileClassifier interface {
	ClassifyRack(ctx context.Context, imageData []byte, mimeType string) (domain.Multiset, error)
}

// Pool is the bag of remaining tiles.
type Pool interface {
	Remaining() domain.Multiset
	Draw(n int) ([]domain.Letter, error)
	Swap(letter domain.Letter, drawN int) ([]domain.Letter, error)
}
