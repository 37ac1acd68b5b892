package player

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/desdemona-ai/iago/board"
)

type queuedPosition struct {
	side board.Side
	pos  *board.Position
}

// warmCache expands the game tree breadth-first from the starting position,
// evaluating each dequeued position (which stores its score in the cache)
// and enqueueing its children with the other side to move, until the cache
// holds the configured number of entries. Early-game positions recur often
// across games, so this front-loads most of the first moves' cache hits.
func (p *Player) warmCache() {
	start := time.Now()
	queue := []queuedPosition{{side: p.side, pos: p.pos.Copy()}}
	for p.tt.Len() < p.cfg.BookTarget && len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		p.evaluator.Evaluate(cur.pos)

		next := cur.side.Other()
		for _, m := range cur.pos.LegalMoves(cur.side) {
			child := cur.pos.Copy()
			child.ApplyMove(m, cur.side)
			queue = append(queue, queuedPosition{side: next, pos: child})
		}
	}
	log.Info().Int("entries", p.tt.Len()).Int("target", p.cfg.BookTarget).
		Dur("elapsed", time.Since(start)).Msg("opening-precompute-done")
}
