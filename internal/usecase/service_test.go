package usecase

import (
	"context"
	"strings"
	"testing"

	"peeler.dev/peeler/internal/dictionary"
	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/incremental"
	"peeler.dev/peeler/internal/pool"
	"peeler.dev/peeler/internal/ports"
	"peeler.dev/peeler/internal/solver"
	"peeler.dev/peeler/internal/swap"
)

const testWordlist = `
CAT
CATS
AT
SAT
RAT
TAR
STAR
ARTS
CARS
CAR
ACT
`

func testDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.Build(strings.NewReader(testWordlist))
	if err != nil {
		t.Fatalf("building test dictionary: %v", err)
	}
	return d
}

func wiredService(t *testing.T) *Service {
	t.Helper()
	dict := testDict(t)
	core := solver.NewBacktrackSolver(domain.TranslationOnly)
	incr := incremental.NewSolver(core)
	sw := swap.New(1)
	return NewService(core, incr, sw, dict)
}

func TestServiceSolveWiresCoreAndDictionary(t *testing.T) {
	s := wiredService(t)
	hand := domain.NewMultiset([]domain.Letter{'C', 'A', 'T'})
	result, err := s.Solve(context.Background(), hand, ports.Unbounded())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if result.Grid.LetterCount() == 0 {
		t.Fatalf("expected CAT to place")
	}
}

func TestServiceSolveRequiresCore(t *testing.T) {
	s := &Service{Dictionary: testDict(t)}
	if _, err := s.Solve(context.Background(), domain.Multiset{}, ports.Unbounded()); err != errNotConfigured {
		t.Fatalf("expected errNotConfigured with nil Core, got %v", err)
	}
}

func TestServiceSolveRequiresDictionary(t *testing.T) {
	s := &Service{Core: solver.NewBacktrackSolver(domain.TranslationOnly)}
	if _, err := s.Solve(context.Background(), domain.Multiset{}, ports.Unbounded()); err != errNotConfigured {
		t.Fatalf("expected errNotConfigured with nil Dictionary, got %v", err)
	}
}

func TestServicePeelExtendsGrid(t *testing.T) {
	s := wiredService(t)
	hand := domain.NewMultiset([]domain.Letter{'C', 'A', 'T'})
	seeded, err := s.Solve(context.Background(), hand, ports.Unbounded())
	if err != nil {
		t.Fatalf("seeding Solve: %v", err)
	}

	added := domain.NewMultiset([]domain.Letter{'S'})
	result, err := s.Peel(context.Background(), seeded.Grid, hand, added, ports.Unbounded())
	if err != nil {
		t.Fatalf("Peel: %v", err)
	}
	if result.Grid.LetterCount() <= seeded.Grid.LetterCount() {
		t.Fatalf("Peel should grow the grid: before=%d after=%d", seeded.Grid.LetterCount(), result.Grid.LetterCount())
	}
}

func TestServicePeelRequiresIncremental(t *testing.T) {
	s := &Service{Dictionary: testDict(t)}
	if _, err := s.Peel(context.Background(), nil, domain.Multiset{}, domain.Multiset{}, ports.Unbounded()); err != errNotConfigured {
		t.Fatalf("expected errNotConfigured with nil Incremental, got %v", err)
	}
}

func TestServiceSwapScoresRanksUnplaced(t *testing.T) {
	s := wiredService(t)
	hand := domain.NewMultiset([]domain.Letter{'C', 'A', 'T', 'Z'})
	seeded, err := s.Solve(context.Background(), domain.NewMultiset([]domain.Letter{'C', 'A', 'T'}), ports.Unbounded())
	if err != nil {
		t.Fatalf("seeding Solve: %v", err)
	}

	scores, err := s.SwapScores(context.Background(), hand, seeded.Grid)
	if err != nil {
		t.Fatalf("SwapScores: %v", err)
	}
	if len(scores) != 1 || scores[0].Letter != 'Z' {
		t.Fatalf("expected a single candidate Z, got %v", scores)
	}
}

func TestServiceSwapScoresRequiresSwap(t *testing.T) {
	s := &Service{Dictionary: testDict(t)}
	if _, err := s.SwapScores(context.Background(), domain.Multiset{}, nil); err != errNotConfigured {
		t.Fatalf("expected errNotConfigured with nil Swap, got %v", err)
	}
}

func TestServiceDrawFromPool(t *testing.T) {
	s := wiredService(t)
	p := pool.New(domain.Multiset{}, 7)
	drawn, err := s.DrawFromPool(p, 3)
	if err != nil {
		t.Fatalf("DrawFromPool: %v", err)
	}
	if len(drawn) != 3 {
		t.Fatalf("expected 3 drawn letters, got %d", len(drawn))
	}
}

func TestServiceDrawFromPoolRequiresPool(t *testing.T) {
	s := wiredService(t)
	if _, err := s.DrawFromPool(nil, 1); err != errNotConfigured {
		t.Fatalf("expected errNotConfigured with nil pool, got %v", err)
	}
}

func TestServiceSwapIntoPool(t *testing.T) {
	s := wiredService(t)
	p := pool.New(domain.Multiset{}, 7)
	drawn, err := s.SwapIntoPool(p, 'Z', 2)
	if err != nil {
		t.Fatalf("SwapIntoPool: %v", err)
	}
	if len(drawn) != 2 {
		t.Fatalf("expected 2 drawn letters, got %d", len(drawn))
	}
}

func TestServiceSwapIntoPoolRequiresPool(t *testing.T) {
	s := wiredService(t)
	if _, err := s.SwapIntoPool(nil, 'Z', 1); err != errNotConfigured {
		t.Fatalf("expected errNotConfigured with nil pool, got %v", err)
	}
}
