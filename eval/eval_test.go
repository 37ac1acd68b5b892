package eval

import (
	"testing"

	"github.com/matryer/is"

	"github.com/desdemona-ai/iago/board"
	"github.com/desdemona-ai/iago/ttable"
)

func midgamePosition() *board.Position {
	pos := board.StartingPosition()
	side := board.Black
	for i := 0; i < 6; i++ {
		moves := pos.LegalMoves(side)
		if len(moves) > 0 {
			pos.ApplyMove(moves[0], side)
		}
		side = side.Other()
	}
	return pos
}

func TestDeterminism(t *testing.T) {
	is := is.New(t)
	pos := midgamePosition()
	ev := New(board.Black, ttable.New(100), DefaultWeights())
	first := ev.Evaluate(pos)
	// The second call is answered from the cache and must not differ.
	is.Equal(ev.Evaluate(pos), first)
	// Nor may a cache-less recomputation.
	fresh := New(board.Black, ttable.New(100), DefaultWeights())
	is.Equal(fresh.Evaluate(pos), first)
}

func TestSymmetry(t *testing.T) {
	is := is.New(t)
	pos := midgamePosition()
	evBlack := New(board.Black, ttable.New(100), DefaultWeights())
	evWhite := New(board.White, ttable.New(100), DefaultWeights())
	is.Equal(evBlack.Evaluate(pos), -evWhite.Evaluate(pos))
}

func TestMaterialOnlyMode(t *testing.T) {
	is := is.New(t)
	tt := ttable.New(100)
	ev := New(board.Black, tt, DefaultWeights())
	ev.SetMaterialOnly(true)
	pos := board.StartingPosition()
	is.Equal(ev.Evaluate(pos), int16(0))
	// Test mode bypasses the cache entirely.
	is.Equal(tt.Len(), 0)

	pos.ApplyMove(pos.LegalMoves(board.Black)[0], board.Black)
	is.Equal(ev.Evaluate(pos), int16(3)) // 4 black, 1 white
}

func TestCornerOutweighsEdge(t *testing.T) {
	is := is.New(t)
	w := DefaultWeights()
	ev := New(board.Black, ttable.New(100), w)

	d4 := uint64(1) << (3*8 + 3)
	corner := board.FromBits(1<<0|d4, 1<<0|d4) // a1 + d4, all black
	edge := board.FromBits(1<<1|d4, 1<<1|d4)   // b1 + d4, all black

	// A corner square carries the corner bonus on top of the edge bonus
	// both positions already score.
	is.Equal(ev.Evaluate(corner)-ev.Evaluate(edge), int16(w.Corner))
}

func TestCachePopulatedOnMiss(t *testing.T) {
	is := is.New(t)
	tt := ttable.New(100)
	ev := New(board.Black, tt, DefaultWeights())
	pos := board.StartingPosition()
	score := ev.Evaluate(pos)
	is.Equal(tt.Len(), 1)
	cached, ok := tt.Lookup(ttable.Key(pos.Bits(board.Black), pos.Occupied()))
	is.True(ok)
	is.Equal(cached, score)
}

func TestMobilityTermOffByDefault(t *testing.T) {
	is := is.New(t)
	pos := board.StartingPosition()
	withOff := New(board.Black, ttable.New(10), DefaultWeights())
	w := DefaultWeights()
	w.Mobility = 3
	withOn := New(board.Black, ttable.New(10), w)
	// Both sides open with four legal moves, so the term is zero here and
	// the scores agree; the point is that the default-off path never even
	// enumerates moves.
	is.Equal(withOff.Evaluate(pos), withOn.Evaluate(pos))
}
