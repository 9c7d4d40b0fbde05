// Package game layers full-game bookkeeping over the position engine:
// legality-validated move application, the board stack for undo, and
// the position-key history that repetition detection needs. A session
// layer holds one Game per active game.
package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/move"
	"github.com/caissanet/caissa/movegen"
)

// Game is a chess game in progress. Boards are immutable values, so
// the stack of positions doubles as the undo history.
type Game struct {
	boards  []*board.Board
	moves   []move.Move
	history []uint64
}

// NewGame starts a game from the standard initial position.
func NewGame() *Game {
	b := board.StartingPosition()
	return &Game{
		boards:  []*board.Board{b},
		history: []uint64{b.Key()},
	}
}

// FromFEN starts a game from an arbitrary position. Repetition
// history begins at that position.
func FromFEN(fen string) (*Game, error) {
	b, err := board.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{
		boards:  []*board.Board{b},
		history: []uint64{b.Key()},
	}, nil
}

// Board returns the current position.
func (g *Game) Board() *board.Board {
	return g.boards[len(g.boards)-1]
}

// Moves returns the moves played so far.
func (g *Game) Moves() []move.Move {
	return g.moves
}

// History returns the keys of every position the game has reached,
// including the current one.
func (g *Game) History() []uint64 {
	return g.history
}

// Status classifies the current position against the game's history.
func (g *Game) Status() Status {
	return Classify(g.Board(), g.history)
}

// resolve matches an externally supplied move against the legal set,
// returning the generator's move (which carries the en-passant and
// castling flags the caller may not know to set).
func resolve(b *board.Board, m move.Move) (move.Move, error) {
	sameDest := false
	for _, lm := range movegen.LegalMoves(b) {
		if lm.Matches(m) {
			return lm, nil
		}
		if lm.From == m.From && lm.To == m.To {
			sameDest = true
		}
	}
	if sameDest {
		// The square pair is playable, so only the promotion field
		// can be wrong.
		return move.Move{}, fmt.Errorf("%w: %v", board.ErrInvalidPromotion, m)
	}
	return move.Move{}, fmt.Errorf("%w: %v", board.ErrIllegalMove, m)
}

// Apply validates m against b's legal moves and returns the resulting
// board. This is the validating form of move application for callers
// that manage positions themselves; moves outside the legal set fail
// with board.ErrIllegalMove or board.ErrInvalidPromotion.
func Apply(b *board.Board, m move.Move) (*board.Board, error) {
	lm, err := resolve(b, m)
	if err != nil {
		return nil, err
	}
	return b.ApplyMove(lm)
}

// PlayMove validates and applies m, advancing the game.
func (g *Game) PlayMove(m move.Move) error {
	b := g.Board()
	lm, err := resolve(b, m)
	if err != nil {
		return err
	}
	nb, err := b.ApplyMove(lm)
	if err != nil {
		return err
	}
	g.boards = append(g.boards, nb)
	g.moves = append(g.moves, lm)
	g.history = append(g.history, nb.Key())
	log.Debug().Stringer("move", lm).Str("fen", nb.FEN()).Msg("played")
	return nil
}

// UnplayLastMove rewinds one move. It is a no-op at the starting
// position.
func (g *Game) UnplayLastMove() {
	if len(g.boards) < 2 {
		return
	}
	g.boards = g.boards[:len(g.boards)-1]
	g.moves = g.moves[:len(g.moves)-1]
	g.history = g.history[:len(g.history)-1]
}
