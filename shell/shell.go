package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/caissanet/caissa/config"
	"github.com/caissanet/caissa/eval"
	"github.com/caissanet/caissa/game"
	"github.com/caissanet/caissa/move"
	"github.com/caissanet/caissa/movegen"
	"github.com/caissanet/caissa/search"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	curGame *game.Game
	solver  *search.Solver
}

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

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mcaissa>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	solver := search.NewSolver()
	solver.SetThreads(cfg.Threads())
	solver.SetTableMemFraction(cfg.TableMemFraction())
	solver.SetMaxNodes(cfg.MaxNodes())
	return &ShellController{
		l:       l,
		cfg:     cfg,
		curGame: game.NewGame(),
		solver:  solver,
	}
}

func (sc *ShellController) showGame() {
	b := sc.curGame.Board()
	showMessage(b.String(), sc.l.Stderr())
	showMessage("FEN: "+b.FEN(), sc.l.Stderr())
	status := sc.curGame.Status()
	if status != game.Ongoing {
		showMessage(game.ResultString(status, b.Turn()), sc.l.Stderr())
	}
}

func (sc *ShellController) newGame() {
	sc.curGame = game.NewGame()
	sc.showGame()
}

func (sc *ShellController) setPosition(fen string) error {
	g, err := game.FromFEN(fen)
	if err != nil {
		return err
	}
	sc.curGame = g
	sc.showGame()
	return nil
}

func (sc *ShellController) showMoves() {
	moves := movegen.LegalMoves(sc.curGame.Board())
	showMessage(fmt.Sprintf("%d legal moves: %s", len(moves), movesText(moves)),
		sc.l.Stderr())
}

func (sc *ShellController) playMove(text string) error {
	m, err := move.Parse(text)
	if err != nil {
		return err
	}
	if err := sc.curGame.PlayMove(m); err != nil {
		return err
	}
	sc.showGame()
	return nil
}

func (sc *ShellController) takeBack() {
	sc.curGame.UnplayLastMove()
	sc.showGame()
}

// aiMove searches the current position and plays the chosen move.
func (sc *ShellController) aiMove(args []string) error {
	depth := sc.cfg.SearchDepth()
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			return fmt.Errorf("bad depth %q", args[0])
		}
		depth = d
	}
	status := sc.curGame.Status()
	if status.Terminal() {
		return fmt.Errorf("game is over: %s", game.ResultString(status, sc.curGame.Board().Turn()))
	}
	tstart := time.Now()
	res, err := sc.solver.Search(context.Background(), sc.curGame.Board(), depth)
	if err != nil {
		return err
	}
	showMessage(fmt.Sprintf("best move %s; score %d; depth %d; nodes %d; pv: %s (%.2fs)",
		res.Move, res.Score, res.Depth, res.Nodes, movesText(res.PV),
		time.Since(tstart).Seconds()), sc.l.Stderr())
	if err := sc.curGame.PlayMove(res.Move); err != nil {
		return err
	}
	sc.showGame()
	return nil
}

func (sc *ShellController) showEval() {
	score := eval.Evaluate(sc.curGame.Board())
	showMessage(fmt.Sprintf("static evaluation: %+d (positive favors White)", score),
		sc.l.Stderr())
}

func (sc *ShellController) runPerft(args []string) error {
	if len(args) == 0 {
		return errors.New("perft needs a depth")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return fmt.Errorf("bad depth %q", args[0])
	}
	tstart := time.Now()
	nodes := movegen.Perft(sc.curGame.Board(), depth)
	showMessage(fmt.Sprintf("perft(%d) = %d (%.2fs)", depth, nodes,
		time.Since(tstart).Seconds()), sc.l.Stderr())
	return nil
}

func (sc *ShellController) showStatus() {
	status := sc.curGame.Status()
	b := sc.curGame.Board()
	showMessage(game.ResultString(status, b.Turn()), sc.l.Stderr())
	showMessage(fmt.Sprintf("halfmove clock %d, move %d, %v to play",
		b.HalfmoveClock(), b.FullmoveNumber(), b.Turn()), sc.l.Stderr())
}

func (sc *ShellController) setSetting(args []string) error {
	if len(args) != 2 {
		return errors.New("set needs a key and a value")
	}
	if err := sc.cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	sc.solver.SetThreads(sc.cfg.Threads())
	sc.solver.SetTableMemFraction(sc.cfg.TableMemFraction())
	sc.solver.SetMaxNodes(sc.cfg.MaxNodes())
	showMessage(fmt.Sprintf("%s = %s", args[0], args[1]), sc.l.Stderr())
	return nil
}

func movesText(moves []move.Move) string {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	return strings.Join(strs, " ")
}

func (sc *ShellController) commandSwitch(line string, sig chan os.Signal) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "new":
		sc.newGame()
	case "fen":
		if len(args) == 0 {
			showMessage("FEN: "+sc.curGame.Board().FEN(), sc.l.Stderr())
		} else {
			err = sc.setPosition(strings.Join(args, " "))
		}
	case "show":
		sc.showGame()
	case "moves":
		sc.showMoves()
	case "play":
		if len(args) != 1 {
			err = errors.New("play needs a move, like e2e4 or e7e8q")
		} else {
			err = sc.playMove(args[0])
		}
	case "back":
		sc.takeBack()
	case "ai":
		err = sc.aiMove(args)
	case "eval":
		sc.showEval()
	case "perft":
		err = sc.runPerft(args)
	case "status":
		sc.showStatus()
	case "set":
		err = sc.setSetting(args)
	case "settings":
		showMessage(fmt.Sprintf("%v", sc.cfg.AllSettings()), sc.l.Stderr())
	case "help":
		usage(sc.l.Stderr())
	case "bye", "exit", "quit":
		sig <- syscall.SIGINT
		return errors.New("sending quit signal")
	default:
		showMessage("unknown command "+strconv.Quote(cmd)+"; try help", sc.l.Stderr())
	}
	if err != nil {
		showMessage("Error: "+err.Error(), sc.l.Stderr())
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if err := sc.commandSwitch(line, sig); err != nil {
			log.Error().Err(err).Msg("")
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Execute runs a single command line, for non-interactive use.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.commandSwitch(line, sig); err != nil {
		log.Error().Err(err).Msg("")
	}
}
