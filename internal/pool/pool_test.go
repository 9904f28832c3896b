package pool

import (
	"testing"

	"peeler.dev/peeler/internal/domain"
)

func TestNewSubtractsInitialHand(t *testing.T) {
	hand := domain.NewMultiset([]domain.Letter{'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A', 'A'})
	p := New(hand, 1)
	remaining := p.Remaining()
	if remaining.Has('A') {
		t.Fatalf("pool should have 0 A's left after removing the full distribution's worth")
	}
}

func TestNewClampsNegativeAvailability(t *testing.T) {
	// Hand claims more Q's than the standard distribution provides.
	hand := domain.NewMultiset([]domain.Letter{'Q', 'Q', 'Q', 'Q', 'Q', 'Q'})
	p := New(hand, 1)
	if p.Remaining().Has('Q') {
		t.Fatalf("Q should be fully depleted, not negative")
	}
}

func TestDrawReducesPoolAndErrorsWhenInsufficient(t *testing.T) {
	p := New(domain.Multiset{}, 2)
	total := p.RemainingCount()

	drawn, err := p.Draw(5)
	if err != nil {
		t.Fatalf("Draw(5): %v", err)
	}
	if len(drawn) != 5 {
		t.Fatalf("Draw(5) returned %d letters", len(drawn))
	}
	if p.RemainingCount() != total-5 {
		t.Fatalf("RemainingCount = %d, want %d", p.RemainingCount(), total-5)
	}

	if _, err := p.Draw(total + 100); err == nil {
		t.Fatalf("expected error drawing more tiles than remain")
	}
	if p.RemainingCount() != total-5 {
		t.Fatalf("failed draw must not mutate the pool")
	}
}

func TestDrawNegativeCountErrors(t *testing.T) {
	p := New(domain.Multiset{}, 3)
	if _, err := p.Draw(-1); err == nil {
		t.Fatalf("expected error for negative draw count")
	}
}

func TestSwapReturnsLetterAndDraws(t *testing.T) {
	p := New(domain.Multiset{}, 4)
	before := p.RemainingCount()

	drawn, err := p.Swap('Q', 3)
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if len(drawn) != 3 {
		t.Fatalf("Swap drew %d letters, want 3", len(drawn))
	}
	// Net effect: +1 returned, -3 drawn.
	if got, want := p.RemainingCount(), before+1-3; got != want {
		t.Fatalf("RemainingCount after swap = %d, want %d", got, want)
	}
}

func TestSwapRollsBackOnInsufficientPool(t *testing.T) {
	p := New(domain.Multiset{}, 5)
	// Drain the pool down to 1 tile.
	if _, err := p.Draw(p.RemainingCount() - 1); err != nil {
		t.Fatalf("draining pool: %v", err)
	}
	before := p.RemainingCount()

	if _, err := p.Swap('Z', 3); err == nil {
		t.Fatalf("expected error: not enough tiles to satisfy swap draw")
	}
	if p.RemainingCount() != before {
		t.Fatalf("failed swap must roll back to the original count, got %d want %d", p.RemainingCount(), before)
	}
}
