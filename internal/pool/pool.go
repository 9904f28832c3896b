// Package pool implements the bag of undrawn tiles: initialization from
// the standard tile-frequency table, and the draw/swap primitives spec
// §6 exposes as draw_from_pool/swap_into_pool.
package pool

import (
	"fmt"
	"math/rand"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/ports"
)

var _ ports.Pool = (*Pool)(nil)

// Pool is the multiset of tiles remaining in the bag, drawn in a
// deterministic-given-seed shuffled order. Grounded on the reference
// implementation's TilePool: subtract the initial hand from the fixed
// distribution, then shuffle.
type Pool struct {
	tiles []domain.Letter
	rng   *rand.Rand
}

// New builds a Pool from the standard tile distribution minus the
// letters already in initialHand, shuffled by seed. A negative count for
// any letter (hand holds more of a letter than the distribution allows)
// is clamped to zero rather than rejected: the distribution is a soft
// starting cap on realism, not a hard invariant the caller must satisfy.
func New(initialHand domain.Multiset, seed int64) *Pool {
	var tiles []domain.Letter
	for i, total := range domain.TileDistribution {
		available := total - initialHand[i]
		if available < 0 {
			available = 0
		}
		l := domain.LetterFromIndex(i)
		for n := 0; n < available; n++ {
			tiles = append(tiles, l)
		}
	}
	p := &Pool{tiles: tiles, rng: rand.New(rand.NewSource(seed))}
	p.shuffle()
	return p
}

func (p *Pool) shuffle() {
	p.rng.Shuffle(len(p.tiles), func(i, j int) {
		p.tiles[i], p.tiles[j] = p.tiles[j], p.tiles[i]
	})
}

// Remaining returns the multiset of tiles still in the bag.
func (p *Pool) Remaining() domain.Multiset {
	return domain.NewMultiset(p.tiles)
}

// RemainingCount returns how many tiles are left.
func (p *Pool) RemainingCount() int { return len(p.tiles) }

// Draw pops n tiles from the bag. It fails if fewer than n remain,
// leaving the pool untouched (spec §7: invalid input surfaced, not
// silently truncated).
func (p *Pool) Draw(n int) ([]domain.Letter, error) {
	if n < 0 {
		return nil, fmt.Errorf("draw count %d is negative", n)
	}
	if n > len(p.tiles) {
		return nil, fmt.Errorf("cannot draw %d tiles, only %d remain", n, len(p.tiles))
	}
	drawn := make([]domain.Letter, n)
	for i := 0; i < n; i++ {
		last := len(p.tiles) - 1
		drawn[i] = p.tiles[last]
		p.tiles = p.tiles[:last]
	}
	return drawn, nil
}

// Swap returns letter to the bag, reshuffles, and draws drawN tiles
// (conventionally 3). If fewer than drawN tiles would be available after
// the return, the swap is rolled back entirely and an error is returned,
// matching the reference implementation's undo-on-insufficient-pool
// behavior.
func (p *Pool) Swap(letter domain.Letter, drawN int) ([]domain.Letter, error) {
	p.tiles = append(p.tiles, letter)
	if len(p.tiles) < drawN {
		p.tiles = p.tiles[:len(p.tiles)-1]
		return nil, fmt.Errorf("swap needs %d tiles in pool after return, only %d available", drawN, len(p.tiles))
	}
	p.shuffle()
	return p.Draw(drawN)
}
