package game

import (
	"fmt"

	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/move"
	"github.com/caissanet/caissa/movegen"
)

// Status is the outcome classification of a position, evaluated after
// every applied move.
type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
	DrawFiftyMove
	DrawInsufficientMaterial
	DrawRepetition
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "Ongoing"
	case Check:
		return "Check"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	case DrawFiftyMove:
		return "DrawFiftyMove"
	case DrawInsufficientMaterial:
		return "DrawInsufficientMaterial"
	case DrawRepetition:
		return "DrawRepetition"
	}
	return "Unknown"
}

// Terminal reports whether the game is over; no further moves are
// legal in a terminal state.
func (s Status) Terminal() bool {
	return s != Ongoing && s != Check
}

// ResultString renders the user-facing result for a position with the
// given side to move.
func ResultString(s Status, toMove move.Color) string {
	switch s {
	case Checkmate:
		return fmt.Sprintf("Checkmate! %v wins.", toMove.Other())
	case Stalemate:
		return "Stalemate!"
	case DrawFiftyMove:
		return "Draw by 50-move rule."
	case DrawInsufficientMaterial:
		return "Draw by insufficient material."
	case DrawRepetition:
		return "Draw by threefold repetition."
	case Check:
		return fmt.Sprintf("%v to move, in check", toMove)
	}
	return fmt.Sprintf("%v to move", toMove)
}

// Classify derives the game status of b. history is the sequence of
// position keys the game has passed through, including b itself; the
// caller (a Game, or a session layer) maintains it. Classify is a
// pure predicate and keeps no state.
//
// Precedence: mate, stalemate, fifty-move rule, insufficient
// material, threefold repetition, check, ongoing.
func Classify(b *board.Board, history []uint64) Status {
	inCheck := movegen.InCheck(b, b.Turn())
	if len(movegen.LegalMoves(b)) == 0 {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	if b.HalfmoveClock() >= 100 {
		return DrawFiftyMove
	}
	if insufficientMaterial(b) {
		return DrawInsufficientMaterial
	}
	if occurrences(history, b.Key()) >= 3 {
		return DrawRepetition
	}
	if inCheck {
		return Check
	}
	return Ongoing
}

func occurrences(history []uint64, key uint64) int {
	n := 0
	for _, k := range history {
		if k == key {
			n++
		}
	}
	return n
}

// insufficientMaterial recognizes the dead positions where neither
// side can possibly deliver mate: bare kings, a lone minor piece, or
// one bishop each on the same square color. Two knights and anything
// with a pawn, rook or queen are not auto-drawn.
func insufficientMaterial(b *board.Board) bool {
	var minors [2]int
	var bishopColors []int
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		switch p.Kind {
		case move.NoKind, move.King:
		case move.Knight:
			minors[p.Color]++
		case move.Bishop:
			minors[p.Color]++
			bishopColors = append(bishopColors, (sq.Row()+sq.Col())%2)
		default:
			return false
		}
	}
	total := minors[move.White] + minors[move.Black]
	if total <= 1 {
		return true
	}
	if total == 2 && minors[move.White] == 1 && len(bishopColors) == 2 {
		return bishopColors[0] == bishopColors[1]
	}
	return false
}
