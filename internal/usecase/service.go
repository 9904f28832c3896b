package usecase

import (
	"context"
	"errors"

	"peeler.dev/peeler/internal/domain"
	"peeler.dev/peeler/internal/grid"
	"peeler.dev/peeler/internal/pool"
	"peeler.dev/peeler/internal/ports"
)

// Service wires the core ports into the external interface spec §6
// names: build_dictionary (handled at startup, not here), solve, peel,
// swap_scores, draw_from_pool, swap_into_pool.
type Service struct {
	Core        ports.CoreSolver
	Incremental ports.IncrementalSolver
	Swap        ports.SwapAnalyzer
	Dictionary  ports.Dictionary
}

func NewService(core ports.CoreSolver, incr ports.IncrementalSolver, sw ports.SwapAnalyzer, dict ports.Dictionary) *Service {
	return &Service{Core: core, Incremental: incr, Swap: sw, Dictionary: dict}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// Solve arranges hand into a fresh grid.
func (s *Service) Solve(ctx context.Context, hand domain.Multiset, budget ports.Budget) (ports.Result, error) {
	if s.Core == nil {
		return ports.Result{}, errNotConfigured
	}
	if s.Dictionary == nil {
		return ports.Result{}, errNotConfigured
	}
	return s.Core.Solve(ctx, hand, s.Dictionary, budget)
}

// Peel updates a previously solved grid after added arrives.
func (s *Service) Peel(ctx context.Context, prevGrid *grid.Grid, prevHand, added domain.Multiset, budget ports.Budget) (ports.Result, error) {
	if s.Incremental == nil {
		return ports.Result{}, errNotConfigured
	}
	if s.Dictionary == nil {
		return ports.Result{}, errNotConfigured
	}
	return s.Incremental.Peel(ctx, prevGrid, prevHand, added, s.Dictionary, budget)
}

// SwapScores ranks unplaced hand letters by trade-away desirability.
func (s *Service) SwapScores(ctx context.Context, hand domain.Multiset, g *grid.Grid) ([]ports.SwapCandidate, error) {
	if s.Swap == nil {
		return nil, errNotConfigured
	}
	if s.Dictionary == nil {
		return nil, errNotConfigured
	}
	return s.Swap.Scores(ctx, hand, g, s.Dictionary)
}

// DrawFromPool draws n tiles from p.
func (s *Service) DrawFromPool(p *pool.Pool, n int) ([]domain.Letter, error) {
	if p == nil {
		return nil, errNotConfigured
	}
	return p.Draw(n)
}

// SwapIntoPool returns letter to p and draws drawN replacements.
func (s *Service) SwapIntoPool(p *pool.Pool, letter domain.Letter, drawN int) ([]domain.Letter, error) {
	if p == nil {
		return nil, errNotConfigured
	}
	return p.Swap(letter, drawN)
}
