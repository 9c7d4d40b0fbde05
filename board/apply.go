package board

import (
	"fmt"

	"github.com/caissanet/caissa/move"
	"github.com/caissanet/caissa/zobrist"
)

func rookHome(c move.Color, kingSide bool) move.Square {
	row := 0
	if c == move.White {
		row = 7
	}
	if kingSide {
		return move.Sq(row, 7)
	}
	return move.Sq(row, 0)
}

func (b *Board) disableRight(c move.Color, kingSide bool) {
	r := &b.rights[c]
	if kingSide && r.KingSide {
		r.KingSide = false
		b.key ^= zobrist.Castle(uint8(c), true)
	} else if !kingSide && r.QueenSide {
		r.QueenSide = false
		b.key ^= zobrist.Castle(uint8(c), false)
	}
}

// ApplyMove executes m and returns the resulting position as a new
// board; the receiver is left untouched. It checks the structural
// preconditions (a piece of the moving side on the from-square, a
// valid promotion kind exactly when one is required) but not full
// legality; the movegen package generates only legal moves, and the
// game package validates externally supplied moves against that set.
func (b *Board) ApplyMove(m move.Move) (*Board, error) {
	if m.From >= move.NoSquare || m.To >= move.NoSquare {
		return nil, fmt.Errorf("%w: square out of range in %v", ErrIllegalMove, m)
	}
	p := b.squares[m.From]
	if p.Empty() {
		return nil, fmt.Errorf("%w: no piece on %v", ErrIllegalMove, m.From)
	}
	if p.Color != b.turn {
		return nil, fmt.Errorf("%w: %v piece on %v with %v to move",
			ErrIllegalMove, p.Color, m.From, b.turn)
	}
	lastRow := 0
	if p.Color == move.Black {
		lastRow = 7
	}
	if p.Kind == move.Pawn && m.To.Row() == lastRow {
		switch m.Promotion {
		case move.Knight, move.Bishop, move.Rook, move.Queen:
		default:
			return nil, fmt.Errorf("%w: pawn reaches the last rank in %v", ErrInvalidPromotion, m)
		}
	} else if m.Promotion != move.NoKind {
		return nil, fmt.Errorf("%w: promotion on non-promoting move %v", ErrInvalidPromotion, m)
	}

	nb := *b
	captured := nb.squares[m.To]

	nb.key ^= zobrist.Piece(uint8(p.Color), uint8(p.Kind), uint8(m.From))
	nb.key ^= zobrist.Side()

	if !captured.Empty() || p.Kind == move.Pawn {
		nb.halfmoveClock = 0
	} else {
		nb.halfmoveClock++
	}

	// Castling relocates the rook in the same application.
	if m.Castling {
		row := m.From.Row()
		var rookFrom, rookTo move.Square
		if m.To.Col() == 6 {
			rookFrom, rookTo = move.Sq(row, 7), move.Sq(row, 5)
		} else {
			rookFrom, rookTo = move.Sq(row, 0), move.Sq(row, 3)
		}
		rook := nb.squares[rookFrom]
		if rook.Kind != move.Rook || rook.Color != p.Color {
			return nil, fmt.Errorf("%w: no castling rook on %v", ErrIllegalMove, rookFrom)
		}
		rook.HasMoved = true
		nb.squares[rookTo] = rook
		nb.squares[rookFrom] = move.Piece{}
		nb.key ^= zobrist.Piece(uint8(rook.Color), uint8(rook.Kind), uint8(rookFrom))
		nb.key ^= zobrist.Piece(uint8(rook.Color), uint8(rook.Kind), uint8(rookTo))
	}

	// The en-passant victim sits beside the from-square, not on the
	// destination.
	if m.EnPassant {
		capSq := move.Sq(m.From.Row(), m.To.Col())
		captured = nb.squares[capSq]
		nb.squares[capSq] = move.Piece{}
		if !captured.Empty() {
			nb.key ^= zobrist.Piece(uint8(captured.Color), uint8(captured.Kind), uint8(capSq))
		}
	} else if !captured.Empty() {
		nb.key ^= zobrist.Piece(uint8(captured.Color), uint8(captured.Kind), uint8(m.To))
	}

	placed := p
	placed.HasMoved = true
	if m.Promotion != move.NoKind {
		placed.Kind = m.Promotion
	}
	nb.squares[m.To] = placed
	nb.squares[m.From] = move.Piece{}
	nb.key ^= zobrist.Piece(uint8(placed.Color), uint8(placed.Kind), uint8(m.To))

	if nb.enPassant != move.NoSquare {
		nb.key ^= zobrist.EPFile(nb.enPassant.Col())
	}
	nb.enPassant = move.NoSquare
	if p.Kind == move.Pawn && (m.To.Row()-m.From.Row() == 2 || m.From.Row()-m.To.Row() == 2) {
		nb.enPassant = move.Sq((m.From.Row()+m.To.Row())/2, m.From.Col())
		nb.key ^= zobrist.EPFile(nb.enPassant.Col())
	}

	if p.Kind == move.King {
		nb.disableRight(p.Color, true)
		nb.disableRight(p.Color, false)
	} else if p.Kind == move.Rook {
		if m.From == rookHome(p.Color, true) {
			nb.disableRight(p.Color, true)
		} else if m.From == rookHome(p.Color, false) {
			nb.disableRight(p.Color, false)
		}
	}
	if !m.EnPassant && captured.Kind == move.Rook {
		if m.To == rookHome(captured.Color, true) {
			nb.disableRight(captured.Color, true)
		} else if m.To == rookHome(captured.Color, false) {
			nb.disableRight(captured.Color, false)
		}
	}

	if b.turn == move.Black {
		nb.fullmoveNumber++
	}
	nb.turn = b.turn.Other()
	return &nb, nil
}
