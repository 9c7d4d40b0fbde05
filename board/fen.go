package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caissanet/caissa/move"
)

// StartingFEN is the FEN of the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FromFEN builds a board from Forsyth-Edwards notation. The halfmove
// clock and fullmove number fields may be omitted. Structural
// violations (wrong field shapes, pawns on back ranks, zero or
// multiple kings for a color) return ErrMalformedPosition. Castling
// rights inconsistent with piece placement are dropped rather than
// rejected, since rights cannot outlive the king or rook leaving its
// home square.
func FromFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: expected 4-6 FEN fields, got %d", ErrMalformedPosition, len(fields))
	}
	b := &Board{
		enPassant:      move.NoSquare,
		fullmoveNumber: 1,
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrMalformedPosition, len(ranks))
	}
	var kings [2]int
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			kind, ok := move.KindFromLetter(ch)
			if !ok || col > 7 {
				return nil, fmt.Errorf("%w: bad placement rank %q", ErrMalformedPosition, rank)
			}
			color := move.Black
			if ch >= 'A' && ch <= 'Z' {
				color = move.White
			}
			if kind == move.Pawn && (row == 0 || row == 7) {
				return nil, fmt.Errorf("%w: pawn on back rank", ErrMalformedPosition)
			}
			if kind == move.King {
				kings[color]++
			}
			b.squares[move.Sq(row, col)] = move.Piece{Color: color, Kind: kind}
			col++
		}
		if col != 8 {
			return nil, fmt.Errorf("%w: rank %q covers %d files", ErrMalformedPosition, rank, col)
		}
	}
	if kings[move.White] != 1 || kings[move.Black] != 1 {
		return nil, fmt.Errorf("%w: need exactly one king per color (white %d, black %d)",
			ErrMalformedPosition, kings[move.White], kings[move.Black])
	}

	switch fields[1] {
	case "w":
		b.turn = move.White
	case "b":
		b.turn = move.Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrMalformedPosition, fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.rights[move.White].KingSide = true
			case 'Q':
				b.rights[move.White].QueenSide = true
			case 'k':
				b.rights[move.Black].KingSide = true
			case 'q':
				b.rights[move.Black].QueenSide = true
			default:
				return nil, fmt.Errorf("%w: bad castling field %q", ErrMalformedPosition, fields[2])
			}
		}
	}
	for _, c := range []move.Color{move.White, move.Black} {
		kingRow := 0
		if c == move.White {
			kingRow = 7
		}
		king := b.squares[move.Sq(kingRow, 4)]
		onHome := king.Kind == move.King && king.Color == c
		if !onHome {
			b.rights[c] = CastlingRights{}
			continue
		}
		if r := b.squares[rookHome(c, true)]; r.Kind != move.Rook || r.Color != c {
			b.rights[c].KingSide = false
		}
		if r := b.squares[rookHome(c, false)]; r.Kind != move.Rook || r.Color != c {
			b.rights[c].QueenSide = false
		}
	}

	if fields[3] != "-" {
		sq, err := move.SquareFromString(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad en-passant square %q", ErrMalformedPosition, fields[3])
		}
		if sq.Row() != 2 && sq.Row() != 5 {
			return nil, fmt.Errorf("%w: en-passant square %v not on rank 3 or 6", ErrMalformedPosition, sq)
		}
		b.enPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrMalformedPosition, fields[4])
		}
		b.halfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrMalformedPosition, fields[5])
		}
		b.fullmoveNumber = n
	}

	b.key = b.computeKey()
	return b, nil
}

// FEN renders the position in Forsyth-Edwards notation.
func (b *Board) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < 8; col++ {
			p := b.squares[move.Sq(row, col)]
			if p.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			ch := p.Kind.Letter()
			if p.Color == move.White {
				ch -= 'a' - 'A'
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	sb.WriteByte(' ')
	if b.turn == move.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	castle := ""
	if b.rights[move.White].KingSide {
		castle += "K"
	}
	if b.rights[move.White].QueenSide {
		castle += "Q"
	}
	if b.rights[move.Black].KingSide {
		castle += "k"
	}
	if b.rights[move.Black].QueenSide {
		castle += "q"
	}
	if castle == "" {
		castle = "-"
	}
	sb.WriteString(castle)

	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())

	fmt.Fprintf(&sb, " %d %d", b.halfmoveClock, b.fullmoveNumber)
	return sb.String()
}
