// Package automatic plays computer-vs-computer games, for quick strength
// and regression checks.
package automatic

import (
	"context"
	"expvar"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/desdemona-ai/iago/board"
	"github.com/desdemona-ai/iago/config"
	"github.com/desdemona-ai/iago/move"
	"github.com/desdemona-ai/iago/player"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// Result is the outcome of one finished game.
type Result struct {
	BlackCount int
	WhiteCount int
	Moves      int
}

// Winner names the winning side, or "draw".
func (r Result) Winner() string {
	switch {
	case r.BlackCount > r.WhiteCount:
		return board.Black.String()
	case r.WhiteCount > r.BlackCount:
		return board.White.String()
	default:
		return "draw"
	}
}

func (r Result) String() string {
	return fmt.Sprintf("%v (%d-%d in %d moves)", r.Winner(), r.BlackCount, r.WhiteCount, r.Moves)
}

// GameRunner plays out full games between two engines, or between an engine
// and a uniform-random mover when randomWhite is set.
type GameRunner struct {
	cfg         config.Config
	msLeft      int
	randomWhite bool
}

func NewGameRunner(cfg config.Config) *GameRunner {
	return &GameRunner{cfg: cfg, msLeft: -1}
}

// SetGameClock sets the whole-game clock in milliseconds handed to each
// engine; -1 plays untimed fixed-depth moves.
func (r *GameRunner) SetGameClock(ms int) {
	r.msLeft = ms
}

func (r *GameRunner) SetRandomWhite(v bool) {
	r.randomWhite = v
}

// PlayGame plays one game to completion and returns the final count.
func (r *GameRunner) PlayGame(ctx context.Context) (Result, error) {
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	black := player.New(board.Black, r.cfg)
	var white *player.Player
	if !r.randomWhite {
		white = player.New(board.White, r.cfg)
	}

	// The runner keeps the authoritative position; each engine tracks its
	// own copy through the opponent-move protocol.
	pos := board.StartingPosition()
	var last *move.Move
	result := Result{}
	for !pos.GameOver() {
		m, err := black.ChooseMove(ctx, last, r.msLeft)
		if err != nil {
			return result, err
		}
		pos.ApplyMove(m, board.Black)
		if m != nil {
			result.Moves++
		}
		last = m

		if pos.GameOver() {
			break
		}
		if white != nil {
			m, err = white.ChooseMove(ctx, last, r.msLeft)
			if err != nil {
				return result, err
			}
		} else {
			m = randomMove(pos, board.White)
			// Keep black's tracked board in sync on the next turn.
		}
		pos.ApplyMove(m, board.White)
		if m != nil {
			result.Moves++
		}
		last = m
	}

	result.BlackCount = pos.PieceCount(board.Black)
	result.WhiteCount = pos.PieceCount(board.White)
	CVCCounter.Add(1)
	log.Debug().Str("result", result.String()).Msg("game-over")
	return result, nil
}

func randomMove(pos *board.Position, s board.Side) *move.Move {
	moves := pos.LegalMoves(s)
	if len(moves) == 0 {
		return nil
	}
	return moves[frand.Intn(len(moves))]
}
