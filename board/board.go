// Package board implements the chess position value: piece placement,
// side to move, castling rights, en-passant state, the move clocks,
// and an incrementally maintained zobrist key. Boards are applied-to,
// never mutated: ApplyMove returns a fresh board so that callers (and
// concurrent search workers) never share position state.
package board

import (
	"errors"
	"strings"

	"github.com/caissanet/caissa/move"
	"github.com/caissanet/caissa/zobrist"
)

var (
	// ErrIllegalMove is returned for a move that is not legal on the
	// board it is applied to. Always recoverable.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidPromotion is returned when a pawn reaches the last
	// rank without a valid promotion kind, or a promotion kind is
	// supplied for a non-promoting move.
	ErrInvalidPromotion = errors.New("invalid promotion")
	// ErrMalformedPosition is returned when a position built from
	// external data violates a structural invariant.
	ErrMalformedPosition = errors.New("malformed position")
)

// CastlingRights are one side's remaining castling options. Rights are
// lost permanently once the king or the granting rook moves or the
// rook is captured.
type CastlingRights struct {
	KingSide  bool
	QueenSide bool
}

// Board is a single chess position.
type Board struct {
	squares        [64]move.Piece
	turn           move.Color
	enPassant      move.Square // the skipped square after a double push
	rights         [2]CastlingRights
	halfmoveClock  int
	fullmoveNumber int
	key            uint64
}

var backRank = [8]move.PieceKind{
	move.Rook, move.Knight, move.Bishop, move.Queen,
	move.King, move.Bishop, move.Knight, move.Rook,
}

// StartingPosition returns the standard initial position.
func StartingPosition() *Board {
	b := &Board{
		enPassant:      move.NoSquare,
		fullmoveNumber: 1,
	}
	b.rights[move.White] = CastlingRights{KingSide: true, QueenSide: true}
	b.rights[move.Black] = CastlingRights{KingSide: true, QueenSide: true}
	for col := 0; col < 8; col++ {
		b.squares[move.Sq(6, col)] = move.Piece{Color: move.White, Kind: move.Pawn}
		b.squares[move.Sq(1, col)] = move.Piece{Color: move.Black, Kind: move.Pawn}
		b.squares[move.Sq(7, col)] = move.Piece{Color: move.White, Kind: backRank[col]}
		b.squares[move.Sq(0, col)] = move.Piece{Color: move.Black, Kind: backRank[col]}
	}
	b.key = b.computeKey()
	return b
}

func (b *Board) Turn() move.Color {
	return b.turn
}

func (b *Board) PieceAt(sq move.Square) move.Piece {
	return b.squares[sq]
}

// EnPassantTarget returns the square a capturing pawn would land on,
// or move.NoSquare if the last move was not a double pawn push.
func (b *Board) EnPassantTarget() move.Square {
	return b.enPassant
}

func (b *Board) CastlingFor(c move.Color) CastlingRights {
	return b.rights[c]
}

// HalfmoveClock counts half-moves since the last capture or pawn move.
func (b *Board) HalfmoveClock() int {
	return b.halfmoveClock
}

func (b *Board) FullmoveNumber() int {
	return b.fullmoveNumber
}

// Key is the position's zobrist key. It covers placement, turn,
// castling rights, and the en-passant file, which makes it usable
// directly for repetition counting and transposition lookups.
func (b *Board) Key() uint64 {
	return b.key
}

// KingSquare finds c's king. The second return is false only for
// malformed positions.
func (b *Board) KingSquare(c move.Color) (move.Square, bool) {
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p.Kind == move.King && p.Color == c {
			return sq, true
		}
	}
	return move.NoSquare, false
}

func (b *Board) computeKey() uint64 {
	var k uint64
	for sq := 0; sq < 64; sq++ {
		p := b.squares[sq]
		if p.Empty() {
			continue
		}
		k ^= zobrist.Piece(uint8(p.Color), uint8(p.Kind), uint8(sq))
	}
	for c := uint8(0); c < 2; c++ {
		if b.rights[c].KingSide {
			k ^= zobrist.Castle(c, true)
		}
		if b.rights[c].QueenSide {
			k ^= zobrist.Castle(c, false)
		}
	}
	if b.enPassant != move.NoSquare {
		k ^= zobrist.EPFile(b.enPassant.Col())
	}
	if b.turn == move.Black {
		k ^= zobrist.Side()
	}
	return k
}

// Mirror returns the color-swapped, rank-reflected position. Used by
// the evaluator's symmetry property; files are preserved.
func (b *Board) Mirror() *Board {
	nb := &Board{
		turn:           b.turn.Other(),
		enPassant:      move.NoSquare,
		halfmoveClock:  b.halfmoveClock,
		fullmoveNumber: b.fullmoveNumber,
	}
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p.Empty() {
			continue
		}
		p.Color = p.Color.Other()
		nb.squares[move.Sq(7-sq.Row(), sq.Col())] = p
	}
	nb.rights[move.White] = b.rights[move.Black]
	nb.rights[move.Black] = b.rights[move.White]
	if b.enPassant != move.NoSquare {
		nb.enPassant = move.Sq(7-b.enPassant.Row(), b.enPassant.Col())
	}
	nb.key = nb.computeKey()
	return nb
}

// String renders an ASCII diagram, White's pieces uppercase.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteByte(' ')
		for col := 0; col < 8; col++ {
			p := b.squares[move.Sq(row, col)]
			ch := byte('.')
			if !p.Empty() {
				ch = p.Kind.Letter()
				if p.Color == move.White {
					ch -= 'a' - 'A'
				}
			}
			sb.WriteByte(' ')
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h\n")
	return sb.String()
}
