package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/desdemona-ai/iago/automatic"
	"github.com/desdemona-ai/iago/board"
	"github.com/desdemona-ai/iago/config"
	"github.com/desdemona-ai/iago/eval"
	"github.com/desdemona-ai/iago/move"
	"github.com/desdemona-ai/iago/player"
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "new [black|white] - start a game; the engine plays the given side (default white)\n")
	io.WriteString(w, "play <coord> - play your move (e.g. play d3); the engine replies\n")
	io.WriteString(w, "pass - pass when you have no legal move\n")
	io.WriteString(w, "moves - list your legal moves\n")
	io.WriteString(w, "show - display the board\n")
	io.WriteString(w, "eval - static evaluation of the current position\n")
	io.WriteString(w, "clock <ms> - set the engine's remaining game clock; -1 for untimed\n")
	io.WriteString(w, "auto [n] [random] - play n engine-vs-engine games (or vs a random mover)\n")
	io.WriteString(w, "exit - quit\n")
}

type shellController struct {
	cfg       config.Config
	l         *readline.Instance
	engine    *player.Player
	humanSide board.Side
	msLeft    int
}

func newShellController(cfg config.Config) *shellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:              "iago> ",
		HistoryFile:         "/tmp/readline-iago.tmp",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &shellController{cfg: cfg, l: l, msLeft: -1}
}

func (sc *shellController) loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "new":
			engineSide := board.White
			if len(fields) > 1 && strings.ToLower(fields[1]) == "black" {
				engineSide = board.Black
			}
			sc.newGame(engineSide)
		case "play":
			if len(fields) < 2 {
				showMessage("need a coordinate, e.g. play d3", sc.l.Stderr())
				break
			}
			sc.humanMove(fields[1])
		case "pass":
			sc.humanPass()
		case "moves":
			sc.showMoves()
		case "show":
			sc.showBoard()
		case "eval":
			sc.showEval()
		case "clock":
			if len(fields) < 2 {
				showMessage("need milliseconds, e.g. clock 60000", sc.l.Stderr())
				break
			}
			ms, err := strconv.Atoi(fields[1])
			if err != nil {
				showMessage("badly formatted clock value", sc.l.Stderr())
				break
			}
			sc.msLeft = ms
		case "auto":
			sc.autoPlay(fields[1:])
		case "help":
			usage(sc.l.Stderr())
		case "exit":
			return
		default:
			showMessage("command not found: "+fields[0], sc.l.Stderr())
		}
	}
}

func (sc *shellController) newGame(engineSide board.Side) {
	sc.engine = player.New(engineSide, sc.cfg)
	sc.humanSide = engineSide.Other()
	showMessage(fmt.Sprintf("new game; engine plays %v, you play %v",
		engineSide, sc.humanSide), sc.l.Stderr())
	if engineSide == board.Black {
		sc.engineReply(nil)
	}
	sc.showBoard()
}

func (sc *shellController) humanMove(coord string) {
	if sc.engine == nil {
		showMessage("no game in progress; use new", sc.l.Stderr())
		return
	}
	m, err := move.FromString(coord)
	if err != nil {
		showMessage(err.Error(), sc.l.Stderr())
		return
	}
	legal := sc.engine.Position().LegalMoves(sc.humanSide)
	if !lo.ContainsBy(legal, func(l *move.Move) bool { return l.Equals(m) }) {
		showMessage("illegal move: "+m.String(), sc.l.Stderr())
		return
	}
	sc.engineReply(m)
	sc.showBoard()
}

func (sc *shellController) humanPass() {
	if sc.engine == nil {
		showMessage("no game in progress; use new", sc.l.Stderr())
		return
	}
	if sc.engine.Position().HasLegalMove(sc.humanSide) {
		showMessage("you have legal moves; passing is not allowed", sc.l.Stderr())
		return
	}
	sc.engineReply(nil)
	sc.showBoard()
}

func (sc *shellController) engineReply(humanMove *move.Move) {
	m, err := sc.engine.ChooseMove(context.Background(), humanMove, sc.msLeft)
	if err != nil {
		log.Err(err).Msg("choosing move")
		return
	}
	showMessage("engine plays "+m.String(), sc.l.Stderr())
	pos := sc.engine.Position()
	if pos.GameOver() {
		showMessage(fmt.Sprintf("game over: black %d, white %d",
			pos.PieceCount(board.Black), pos.PieceCount(board.White)), sc.l.Stderr())
	}
}

func (sc *shellController) showMoves() {
	if sc.engine == nil {
		showMessage("no game in progress; use new", sc.l.Stderr())
		return
	}
	legal := sc.engine.Position().LegalMoves(sc.humanSide)
	if len(legal) == 0 {
		showMessage("no legal moves; use pass", sc.l.Stderr())
		return
	}
	coords := lo.Map(legal, func(m *move.Move, _ int) string { return m.String() })
	showMessage(strings.Join(coords, " "), sc.l.Stderr())
}

func (sc *shellController) showBoard() {
	if sc.engine == nil {
		showMessage("no game in progress; use new", sc.l.Stderr())
		return
	}
	showMessage(sc.engine.Position().ToDisplayText(), sc.l.Stderr())
}

func (sc *shellController) showEval() {
	if sc.engine == nil {
		showMessage("no game in progress; use new", sc.l.Stderr())
		return
	}
	weights := eval.Weights{
		Edge:     sc.cfg.EdgeWeight,
		Corner:   sc.cfg.CornerWeight,
		Mobility: sc.cfg.MobilityWeight,
	}
	ev := eval.New(sc.engine.Side(), sc.engine.Table(), weights)
	showMessage(fmt.Sprintf("eval for %v: %d", sc.engine.Side(),
		ev.Evaluate(sc.engine.Position())), sc.l.Stderr())
}

func (sc *shellController) autoPlay(args []string) {
	games := 1
	random := false
	for _, a := range args {
		if a == "random" {
			random = true
			continue
		}
		if n, err := strconv.Atoi(a); err == nil {
			games = n
		}
	}
	runner := automatic.NewGameRunner(sc.cfg)
	runner.SetGameClock(sc.msLeft)
	runner.SetRandomWhite(random)
	for i := 0; i < games; i++ {
		result, err := runner.PlayGame(context.Background())
		if err != nil {
			log.Err(err).Msg("autoplay game failed")
			return
		}
		showMessage(result.String(), sc.l.Stderr())
	}
}
