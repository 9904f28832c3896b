// Package swap implements the swap-score heuristic (spec §4.6): which
// unplaced hand letters are best traded back into the pool.
package swap

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/ports"
	"peeler.dev/peeler/internal/solver"
)

// Analyzer scores unplaced letters for swap-worthiness. Grounded on the
// reference implementation's analyze_swaps: a difficulty term, an
// availability term (how many short words still use the letter), a
// Monte Carlo term (does trading it for 3 random draws improve the
// hand?), and a Q-without-U special case.
type Analyzer struct {
	seed        int64
	rng         *rand.Rand
	simulations int
}

// New returns an Analyzer whose Monte Carlo term draws from rng seeded
// by seed. Scores reseeds rng on every call, so a fixed seed keeps Scores
// deterministic across calls with the same inputs, matching the rest of
// the engine's determinism guarantee (spec §8's "call solve twice"
// property extended to swap).
func New(seed int64) *Analyzer {
	return &Analyzer{seed: seed, rng: rand.New(rand.NewSource(seed)), simulations: 20}
}

var _ ports.SwapAnalyzer = (*Analyzer)(nil)

// Scores ranks every hand letter not currently on g by descending swap
// score. It never fails; an empty result means no unplaced letters.
func (a *Analyzer) Scores(ctx context.Context, hand domain.Multiset, g *grid.Grid, dict ports.Dictionary) ([]ports.SwapCandidate, error) {
	unplaced := hand.Sub(g.LetterMultiset())
	if unplaced.Size() == 0 {
		return nil, nil
	}

	a.rng.Seed(a.seed)
	dead := solver.DeadLetters(unplaced, dict)
	currentDifficulty := totalDifficulty(unplaced)

	var out []ports.SwapCandidate
	for i, count := range unplaced {
		if count == 0 {
			continue
		}
		l := domain.LetterFromIndex(i)
		score := a.score(l, unplaced, dead, dict, currentDifficulty)
		out = append(out, ports.SwapCandidate{Letter: l, Score: score})
	}

	sortCandidates(out)
	return out, nil
}

func (a *Analyzer) score(l domain.Letter, unplaced, dead domain.Multiset, dict ports.Dictionary, currentDifficulty int) float64 {
	score := float64(l.Difficulty()) / 10.0

	availability := wordAvailability(l, unplaced, dict)
	score += math.Max(0, 0.5-availability)

	if sim := a.simulateSwap(l, unplaced); sim < float64(currentDifficulty) {
		score += 0.3
	}

	if dead.Has(l) {
		score += 0.5
	}

	if l == 'Q' && !unplaced.Has('U') && !qWithoutUPlayable(unplaced, dict) {
		score += 0.5
	}

	return score
}

// wordAvailability returns the fraction of short (2-4 letter) dictionary
// words spellable from unplaced that use l. Zero when no such words
// exist at all, meaning l is already maximally isolated.
func wordAvailability(l domain.Letter, unplaced domain.Multiset, dict ports.Dictionary) float64 {
	words := filterByLength(dict.WordsFrom(unplaced, nil), 2, 4)
	if len(words) == 0 {
		return 0
	}
	using := 0
	for _, w := range words {
		for _, c := range w {
			if c == l {
				using++
				break
			}
		}
	}
	return float64(using) / float64(len(words))
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

// simulateSwap estimates the average total difficulty of the hand after
// trading l away for 3 random draws from the tiles not currently held,
// averaged over a.simulations trials.
func (a *Analyzer) simulateSwap(l domain.Letter, unplaced domain.Multiset) float64 {
	var pool []domain.Letter
	for i, total := range domain.TileDistribution {
		available := total - unplaced[i]
		if available < 0 {
			available = 0
		}
		ll := domain.LetterFromIndex(i)
		for n := 0; n < available; n++ {
			pool = append(pool, ll)
		}
	}
	if len(pool) < 3 {
		return math.Inf(1)
	}

	afterSwap := unplaced.WithoutLetter(l)
	total := 0.0
	for i := 0; i < a.simulations; i++ {
		drawn := sampleThree(a.rng, pool)
		hand := afterSwap
		for _, d := range drawn {
			hand = hand.WithLetter(d)
		}
		total += float64(totalDifficulty(hand))
	}
	return total / float64(a.simulations)
}

func sampleThree(rng *rand.Rand, pool []domain.Letter) [3]domain.Letter {
	var out [3]domain.Letter
	n := len(pool)
	for i := 0; i < 3; i++ {
		out[i] = pool[rng.Intn(n)]
	}
	return out
}

func totalDifficulty(m domain.Multiset) int {
	total := 0
	for i, count := range m {
		total += domain.LetterFromIndex(i).Difficulty() * count
	}
	return total
}

// qWithoutUPlayable reports whether some closed-set Q-without-U word
// (QI, QAT, ...) is spellable from unplaced, ignoring the Q requirement
// itself since the caller already knows Q is present.
func qWithoutUPlayable(unplaced domain.Multiset, dict ports.Dictionary) bool {
	for _, ws := range domain.QWithoutUWords() {
		w := domain.NewWord(ws)
		if !dict.Contains(w) {
			continue
		}
		need := w.Multiset()
		need[domain.Letter('Q').Index()] = 0
		unplacedWithoutQ := unplaced
		unplacedWithoutQ[domain.Letter('Q').Index()] = 0
		if unplacedWithoutQ.ContainsAll(need) {
			return true
		}
	}
	return false
}

// sortCandidates orders by descending score; ties break by descending
// letter difficulty, then alphabetically, for determinism (spec §4.6).
func sortCandidates(out []ports.SwapCandidate) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		di, dj := out[i].Letter.Difficulty(), out[j].Letter.Difficulty()
		if di != dj {
			return di > dj
		}
		return out[i].Letter < out[j].Letter
	})
}
