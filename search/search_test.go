package search

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/desdemona-ai/iago/board"
	"github.com/desdemona-ai/iago/eval"
	"github.com/desdemona-ai/iago/move"
	"github.com/desdemona-ai/iago/ttable"
)

func materialSolver(side board.Side) *Solver {
	ev := eval.New(side, ttable.New(1000), eval.DefaultWeights())
	ev.SetMaterialOnly(true)
	return NewSolver(side, ev)
}

// minimax is the unpruned reference: same tree, same evaluation, engine
// perspective throughout.
func minimax(s *Solver, pos *board.Position, toMove board.Side, depth int) int16 {
	moves := pos.LegalMoves(toMove)
	if depth <= 0 || len(moves) == 0 {
		v := s.evaluator.Evaluate(pos)
		return v
	}
	if toMove == s.side {
		best := -HugeNumber
		for _, m := range moves {
			child := pos.Copy()
			child.ApplyMove(m, toMove)
			if v := minimax(s, child, toMove.Other(), depth-1); v > best {
				best = v
			}
		}
		return best
	}
	best := HugeNumber
	for _, m := range moves {
		child := pos.Copy()
		child.ApplyMove(m, toMove)
		if v := minimax(s, child, toMove.Other(), depth-1); v < best {
			best = v
		}
	}
	return best
}

func positions() []*board.Position {
	out := []*board.Position{board.StartingPosition()}
	pos := board.StartingPosition()
	side := board.Black
	for i := 0; i < 8; i++ {
		moves := pos.LegalMoves(side)
		if len(moves) > 0 {
			pos.ApplyMove(moves[len(moves)-1], side)
		}
		side = side.Other()
		if i%3 == 2 {
			out = append(out, pos.Copy())
		}
	}
	return out
}

func TestPruningDoesNotChangeScore(t *testing.T) {
	is := is.New(t)
	for _, pos := range positions() {
		for depth := 1; depth <= 3; depth++ {
			s := materialSolver(board.Black)
			_, score, err := s.BestMove(context.Background(), pos, depth)
			is.NoErr(err)
			if len(pos.LegalMoves(board.Black)) == 0 {
				continue
			}
			is.Equal(score, minimax(s, pos, board.Black, depth))
		}
	}
}

func TestBestMoveFromStart(t *testing.T) {
	is := is.New(t)
	s := materialSolver(board.Black)
	pos := board.StartingPosition()
	m, _, err := s.BestMove(context.Background(), pos, 2)
	is.NoErr(err)
	is.True(m != nil)
	legal := pos.LegalMoves(board.Black)
	found := false
	for _, l := range legal {
		if l.Equals(m) {
			found = true
		}
	}
	is.True(found)
}

func TestLastEqualMoveWins(t *testing.T) {
	is := is.New(t)
	// Every opening reply is symmetric, so all four root moves score the
	// same under the material evaluator and the last-enumerated one must
	// be kept.
	s := materialSolver(board.Black)
	pos := board.StartingPosition()
	m, _, err := s.BestMove(context.Background(), pos, 1)
	is.NoErr(err)
	legal := pos.LegalMoves(board.Black)
	is.True(m.Equals(legal[len(legal)-1]))
}

func TestNoLegalMovesReturnsPass(t *testing.T) {
	is := is.New(t)
	// White cannot bracket a lone corner disc.
	pos := board.FromBits(1<<0, 1<<0|1<<1)
	s := materialSolver(board.White)
	for _, depth := range []int{0, 1, 4} {
		m, score, err := s.BestMove(context.Background(), pos, depth)
		is.NoErr(err)
		is.True(m == nil)
		is.Equal(score, int16(0)) // one disc each
	}
}

func TestNodeCountAtDepthOne(t *testing.T) {
	is := is.New(t)
	s := materialSolver(board.Black)
	pos := board.StartingPosition()
	_, _, err := s.BestMove(context.Background(), pos, 1)
	is.NoErr(err)
	// One negamax call per root move, each answered by evaluation.
	is.Equal(s.Nodes(), uint64(len(pos.LegalMoves(board.Black))))
}

func TestContextCancellation(t *testing.T) {
	is := is.New(t)
	s := materialSolver(board.Black)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := s.BestMove(ctx, board.StartingPosition(), 3)
	is.True(err != nil)
}

func TestTieBreakStability(t *testing.T) {
	is := is.New(t)
	// Repeated searches of the same position choose the same move.
	var prev *move.Move
	for i := 0; i < 3; i++ {
		s := materialSolver(board.Black)
		m, _, err := s.BestMove(context.Background(), board.StartingPosition(), 3)
		is.NoErr(err)
		if prev != nil {
			is.True(m.Equals(prev))
		}
		prev = m
	}
}
