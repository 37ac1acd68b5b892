// Package player is the engine facade handed to a game driver: it tracks
// its own board, schedules searches against the game clock, and front-loads
// the position cache with opening precomputation.
package player

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/desdemona-ai/iago/board"
	"github.com/desdemona-ai/iago/book"
	"github.com/desdemona-ai/iago/config"
	"github.com/desdemona-ai/iago/eval"
	"github.com/desdemona-ai/iago/move"
	"github.com/desdemona-ai/iago/search"
	"github.com/desdemona-ai/iago/ttable"
)

const testingDepth = 2

type Player struct {
	cfg       config.Config
	side      board.Side
	opp       board.Side
	pos       *board.Position
	tt        *ttable.TranspositionTable
	evaluator *eval.Evaluator
	solver    *search.Solver

	// TestingMinimax forces every search to a fixed shallow depth for
	// deterministic correctness tests.
	TestingMinimax bool
}

// New sets up a player for the given side and warms the position cache.
// Construction must stay well inside the driver's 30 second budget; the
// warm-up duration is logged so regressions show up.
func New(side board.Side, cfg config.Config) *Player {
	p := &Player{
		cfg:  cfg,
		side: side,
		opp:  side.Other(),
		pos:  board.StartingPosition(),
		tt:   ttable.New(cfg.CacheSize),
	}
	weights := eval.Weights{
		Edge:     cfg.EdgeWeight,
		Corner:   cfg.CornerWeight,
		Mobility: cfg.MobilityWeight,
	}
	p.evaluator = eval.New(side, p.tt, weights)
	p.solver = search.NewSolver(side, p.evaluator)

	if cfg.BookPath == "" {
		p.warmCache()
		return p
	}

	// A persisted book replaces most of the warm-up work; failures only
	// cost precompute time, so they never abort construction.
	b, err := book.Open(cfg.BookPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.BookPath).Msg("opening-book-unavailable")
		p.warmCache()
		return p
	}
	defer b.Close()
	loaded, err := b.Load(p.tt)
	if err != nil {
		log.Warn().Err(err).Msg("opening-book-load-failed")
	} else {
		log.Info().Int("entries", loaded).Msg("opening-book-loaded")
	}
	p.warmCache()
	if err := b.Save(p.tt); err != nil {
		log.Warn().Err(err).Msg("opening-book-save-failed")
	}
	return p
}

func (p *Player) Side() board.Side {
	return p.side
}

// Position exposes the player's tracked board, for display and move
// validation by a driver.
func (p *Player) Position() *board.Position {
	return p.pos
}

func (p *Player) Table() *ttable.TranspositionTable {
	return p.tt
}

// ChooseMove computes the next move given the opponent's last move (nil if
// this is the first move or the opponent passed). msLeft is the clock for
// the entire remaining game in milliseconds; -1 means no limit. The chosen
// move is applied to the tracked position before returning, and nil means
// the engine has to pass.
func (p *Player) ChooseMove(ctx context.Context, opponentsMove *move.Move, msLeft int) (*move.Move, error) {
	if opponentsMove != nil {
		p.pos.ApplyMove(opponentsMove, p.opp)
	}

	var chosen *move.Move
	var err error
	if msLeft > 0 {
		chosen, err = p.deepeningSearch(ctx, msLeft)
	} else {
		chosen, _, err = p.solver.BestMove(ctx, p.pos, p.searchDepth(p.cfg.SearchDepth))
	}
	if err != nil {
		return nil, err
	}

	p.pos.ApplyMove(chosen, p.side)
	return chosen, nil
}

// deepeningSearch re-runs the fixed-depth search at increasing depths until
// the per-move allowance is spent, keeping the last completed iteration's
// move. The allowance check only happens between iterations; a running
// search is never cut short, so the final iteration may overrun the
// allowance. The conservative divisor is what keeps that overrun inside the
// real clock.
func (p *Player) deepeningSearch(ctx context.Context, msLeft int) (*move.Move, error) {
	start := time.Now()
	allowance := time.Duration(msLeft) * time.Millisecond / time.Duration(p.cfg.TimeDivisor)

	g := &errgroup.Group{}
	done := make(chan struct{})
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := p.solver.Nodes()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	var chosen *move.Move
	var err error
	depth := p.cfg.SearchDepth
	for time.Since(start) < allowance {
		var m *move.Move
		var value int16
		d := p.searchDepth(depth)
		m, value, err = p.solver.BestMove(ctx, p.pos, d)
		if err != nil {
			break
		}
		chosen = m
		log.Debug().Int("depth", d).Int16("value", value).
			Str("move", m.String()).Msg("deepening-iteratively")
		depth++
	}
	close(done)
	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	if chosen == nil && err != nil {
		// Not even the first iteration completed.
		return nil, err
	}
	log.Debug().Int("final-depth", depth).
		Dur("elapsed", time.Since(start)).Dur("allowance", allowance).
		Uint64("cache-hits", p.tt.Hits()).Uint64("cache-lookups", p.tt.Lookups()).
		Msg("move-chosen")
	return chosen, nil
}

func (p *Player) searchDepth(depth int) int {
	if p.TestingMinimax {
		return testingDepth
	}
	return depth
}
