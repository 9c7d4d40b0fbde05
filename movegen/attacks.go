package movegen

import (
	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/move"
)

// Attacked reports whether sq is attacked by any piece of color by.
// It works backwards from the target square instead of enumerating the
// attacker's moves, so it never recurses into castling generation.
func Attacked(b *board.Board, sq move.Square, by move.Color) bool {
	row, col := sq.Row(), sq.Col()

	// A pawn of color by attacks sq from one rank behind its own
	// advance direction.
	pawnRow := row - 1
	if by == move.White {
		pawnRow = row + 1
	}
	for _, dc := range [2]int{-1, 1} {
		if !move.InBounds(pawnRow, col+dc) {
			continue
		}
		p := b.PieceAt(move.Sq(pawnRow, col+dc))
		if p.Kind == move.Pawn && p.Color == by {
			return true
		}
	}

	for _, off := range knightOffsets {
		tr, tc := row+off[0], col+off[1]
		if !move.InBounds(tr, tc) {
			continue
		}
		p := b.PieceAt(move.Sq(tr, tc))
		if p.Kind == move.Knight && p.Color == by {
			return true
		}
	}

	for _, off := range kingOffsets {
		tr, tc := row+off[0], col+off[1]
		if !move.InBounds(tr, tc) {
			continue
		}
		p := b.PieceAt(move.Sq(tr, tc))
		if p.Kind == move.King && p.Color == by {
			return true
		}
	}

	if slidingAttack(b, row, col, by, rookDirs[:], move.Rook) {
		return true
	}
	return slidingAttack(b, row, col, by, bishopDirs[:], move.Bishop)
}

func slidingAttack(b *board.Board, row, col int, by move.Color, dirs [][2]int, kind move.PieceKind) bool {
	for _, d := range dirs {
		for tr, tc := row+d[0], col+d[1]; move.InBounds(tr, tc); tr, tc = tr+d[0], tc+d[1] {
			p := b.PieceAt(move.Sq(tr, tc))
			if p.Empty() {
				continue
			}
			if p.Color == by && (p.Kind == kind || p.Kind == move.Queen) {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether c's king is attacked.
func InCheck(b *board.Board, c move.Color) bool {
	ksq, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return Attacked(b, ksq, c.Other())
}
