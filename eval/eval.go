// Package eval scores positions from the engine's perspective: positive is
// good for the engine's own side.
package eval

import (
	"math/bits"

	"github.com/desdemona-ai/iago/board"
	"github.com/desdemona-ai/iago/ttable"
)

// Fixed bit masks over the 8x8 grid, row-major with a1 at bit 0. The edge
// mask covers the whole border, corners included, so a corner disc carries
// both bonuses.
const (
	EdgeMask   uint64 = 0xff818181818181ff
	CornerMask uint64 = 0x8100000000000081
)

// Weights are the tunable positional bonuses. Mobility is computed into the
// score only when non-zero; the engine has always shipped with it off.
type Weights struct {
	Edge     int
	Corner   int
	Mobility int
}

func DefaultWeights() Weights {
	return Weights{Edge: 5, Corner: 25, Mobility: 0}
}

type Evaluator struct {
	side    board.Side
	weights Weights
	tt      *ttable.TranspositionTable

	// materialOnly bypasses the cache and scores by disc count alone, for
	// verifying search behavior independently of heuristic tuning.
	materialOnly bool
}

func New(side board.Side, tt *ttable.TranspositionTable, w Weights) *Evaluator {
	return &Evaluator{side: side, weights: w, tt: tt}
}

func (e *Evaluator) SetMaterialOnly(b bool) {
	e.materialOnly = b
}

func (e *Evaluator) Side() board.Side {
	return e.side
}

// Evaluate scores pos for the engine's side. It is a pure function of the
// occupancy pattern and the side: identical inputs always yield identical
// scores, cached or not.
func (e *Evaluator) Evaluate(pos *board.Position) int16 {
	if e.materialOnly {
		return int16(pos.PieceCount(e.side) - pos.PieceCount(e.side.Other()))
	}

	key := ttable.Key(pos.Bits(e.side), pos.Occupied())
	if score, ok := e.tt.Lookup(key); ok {
		return score
	}

	// Score with black as the nominal maximizer, then fix the sign below.
	black := pos.Bits(board.Black)
	white := pos.Occupied() &^ black

	score := bits.OnesCount64(black) - bits.OnesCount64(white)
	score += e.weights.Edge * (bits.OnesCount64(black&EdgeMask) - bits.OnesCount64(white&EdgeMask))
	score += e.weights.Corner * (bits.OnesCount64(black&CornerMask) - bits.OnesCount64(white&CornerMask))
	if e.weights.Mobility != 0 {
		score += e.weights.Mobility *
			(len(pos.LegalMoves(board.Black)) - len(pos.LegalMoves(board.White)))
	}

	if e.side == board.White {
		score = -score
	}

	e.tt.Store(key, int16(score))
	return int16(score)
}
