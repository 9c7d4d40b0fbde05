// Package move holds the primitive chess types shared by every other
// package: colors, piece kinds, squares, and the Move value itself.
package move

import (
	"errors"
	"fmt"
)

// Color is the side a piece belongs to, or the side to move.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceKind is one of the six chess piece kinds. The zero value marks
// an empty square.
type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	}
	return "None"
}

// Letter returns the lowercase FEN/coordinate letter for the kind.
func (k PieceKind) Letter() byte {
	return " pnbrqk"[k]
}

// KindFromLetter is the inverse of Letter; case-insensitive.
func KindFromLetter(ch byte) (PieceKind, bool) {
	switch ch {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	}
	return NoKind, false
}

// Piece is a colored piece. Pieces are values; promotion replaces the
// piece rather than mutating it.
type Piece struct {
	Color    Color
	Kind     PieceKind
	HasMoved bool
}

func (p Piece) Empty() bool {
	return p.Kind == NoKind
}

// Square indexes the board rank-major from a8 (0) to h1 (63), the same
// layout the wire protocol uses (row 0 is Black's back rank).
type Square uint8

// NoSquare marks an absent square, e.g. no en-passant target.
const NoSquare Square = 64

// Sq builds a square from a row (0 = rank 8) and column (0 = file a).
func Sq(row, col int) Square {
	return Square(row<<3 | col)
}

func (s Square) Row() int {
	return int(s >> 3)
}

func (s Square) Col() int {
	return int(s & 7)
}

// InBounds reports whether a row/column pair is on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

func (s Square) String() string {
	if s >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col(), 8-s.Row())
}

var ErrBadSquare = errors.New("bad square coordinate")

// SquareFromString parses algebraic coordinates like "e4".
func SquareFromString(str string) (Square, error) {
	if len(str) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrBadSquare, str)
	}
	col := int(str[0] - 'a')
	rank := int(str[1] - '0')
	if col < 0 || col > 7 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("%w: %q", ErrBadSquare, str)
	}
	return Sq(8-rank, col), nil
}

// Move is a single move, meaningful only relative to the board it was
// generated from. The EnPassant and Castling flags are set by the move
// generator; coordinate input is resolved against the legal-move set.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
	EnPassant bool
	Castling  bool
}

// String renders pure coordinate notation: "e2e4", "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(m.Promotion.Letter())
	}
	return s
}

var ErrBadMove = errors.New("bad move coordinate")

// Parse reads coordinate notation ("e2e4", "a7a8n"). The special-move
// flags are left unset; match the result against the legal moves of a
// board to obtain the generator's move.
func Parse(str string) (Move, error) {
	if len(str) != 4 && len(str) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, str)
	}
	from, err := SquareFromString(str[:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, str)
	}
	to, err := SquareFromString(str[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrBadMove, str)
	}
	m := Move{From: from, To: to}
	if len(str) == 5 {
		kind, ok := KindFromLetter(str[4])
		if !ok || kind == Pawn || kind == King {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrBadMove, str)
		}
		m.Promotion = kind
	}
	return m, nil
}

// Matches reports whether m refers to the same from/to/promotion as
// other, ignoring the generator-owned flags.
func (m Move) Matches(other Move) bool {
	return m.From == other.From && m.To == other.To && m.Promotion == other.Promotion
}
