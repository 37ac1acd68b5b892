// Package search explores the game tree with negamax and alpha-beta
// pruning. Pruning never changes the returned score, only the number of
// nodes visited.
package search

import (
	"context"
	"sync/atomic"

	"github.com/desdemona-ai/iago/board"
	"github.com/desdemona-ai/iago/eval"
	"github.com/desdemona-ai/iago/move"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
*/

// HugeNumber stands in for ±infinity when initializing alpha-beta bounds.
// No reachable heuristic score comes anywhere near it.
const HugeNumber = int16(32767)

type Solver struct {
	side      board.Side
	evaluator *eval.Evaluator
	nodes     atomic.Uint64
}

// NewSolver creates a solver searching on behalf of side, which must be the
// side the evaluator scores for.
func NewSolver(side board.Side, evaluator *eval.Evaluator) *Solver {
	return &Solver{side: side, evaluator: evaluator}
}

func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func (s *Solver) ResetNodes() {
	s.nodes.Store(0)
}

// BestMove searches depth plies ahead and returns the best move for the
// solver's side together with its score. When several moves tie, the
// last-enumerated one wins. With no legal moves it returns the nil pass
// sentinel and the position's evaluation.
func (s *Solver) BestMove(ctx context.Context, pos *board.Position, depth int) (*move.Move, int16, error) {
	moves := pos.LegalMoves(s.side)
	if len(moves) == 0 {
		return nil, s.valueFor(pos, s.side), nil
	}

	α := -HugeNumber
	β := HugeNumber
	bestValue := -HugeNumber
	var best *move.Move
	for _, m := range moves {
		child := pos.Copy()
		child.ApplyMove(m, s.side)
		value, err := s.negamax(ctx, child, s.side.Other(), depth-1, -β, -α)
		if err != nil {
			return nil, 0, err
		}
		if -value >= bestValue {
			bestValue = -value
			best = m
		}
		if bestValue > α {
			α = bestValue
		}
	}
	return best, bestValue, nil
}

func (s *Solver) negamax(ctx context.Context, pos *board.Position, toMove board.Side, depth int, α, β int16) (int16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes.Add(1)

	if depth <= 0 {
		return s.valueFor(pos, toMove), nil
	}
	moves := pos.LegalMoves(toMove)
	if len(moves) == 0 {
		return s.valueFor(pos, toMove), nil
	}

	best := -HugeNumber
	for _, m := range moves {
		child := pos.Copy()
		child.ApplyMove(m, toMove)
		value, err := s.negamax(ctx, child, toMove.Other(), depth-1, -β, -α)
		if err != nil {
			return 0, err
		}
		if -value > best {
			best = -value
		}
		if best > α {
			α = best
		}
		if best >= β {
			break // cut-off
		}
	}
	return best, nil
}

// valueFor converts the evaluator's engine-perspective score into the
// side-to-move perspective negamax expects.
func (s *Solver) valueFor(pos *board.Position, toMove board.Side) int16 {
	value := s.evaluator.Evaluate(pos)
	if toMove != s.side {
		value = -value
	}
	return value
}
