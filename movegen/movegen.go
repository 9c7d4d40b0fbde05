// Package movegen generates strictly legal chess moves. Generation is
// two-phase: pseudo-legal moves per piece kind, then a filter that
// applies each candidate and rejects it if the moving side's king is
// left attacked. For a given board the output is a pure function of
// the position, in a stable order (squares scanned a8..h1, fixed
// direction tables, promotions enumerated queen first), which keeps
// search move-ordering reproducible.
package movegen

import (
	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/move"
)

var (
	knightOffsets = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	bishopDirs    = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDirs      = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	queenDirs     = [8][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	promotionKinds = [4]move.PieceKind{move.Queen, move.Rook, move.Bishop, move.Knight}
)

// LegalMoves returns every legal move for the side to move.
func LegalMoves(b *board.Board) []move.Move {
	pseudo := PseudoMoves(b, b.Turn(), true)
	legal := make([]move.Move, 0, len(pseudo))
	for _, m := range pseudo {
		nb, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		if !InCheck(nb, b.Turn()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// PseudoMoves returns c's moves obeying piece movement but ignoring
// whether the king is left in check. Castling candidates carry their
// own path/attack conditions and can be excluded, which the evaluator
// does for its mobility term.
func PseudoMoves(b *board.Board, c move.Color, includeCastling bool) []move.Move {
	moves := make([]move.Move, 0, 48)
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p.Empty() || p.Color != c {
			continue
		}
		switch p.Kind {
		case move.Pawn:
			moves = pawnMoves(b, sq, c, moves)
		case move.Knight:
			moves = offsetMoves(b, sq, c, knightOffsets[:], moves)
		case move.Bishop:
			moves = slidingMoves(b, sq, c, bishopDirs[:], moves)
		case move.Rook:
			moves = slidingMoves(b, sq, c, rookDirs[:], moves)
		case move.Queen:
			moves = slidingMoves(b, sq, c, queenDirs[:], moves)
		case move.King:
			moves = offsetMoves(b, sq, c, kingOffsets[:], moves)
			if includeCastling {
				moves = castlingMoves(b, sq, c, moves)
			}
		}
	}
	return moves
}

func pawnMoves(b *board.Board, from move.Square, c move.Color, moves []move.Move) []move.Move {
	dir, startRow, lastRow := -1, 6, 0
	if c == move.Black {
		dir, startRow, lastRow = 1, 1, 7
	}
	row, col := from.Row(), from.Col()

	appendPawn := func(to move.Square, enPassant bool) []move.Move {
		if to.Row() == lastRow {
			for _, k := range promotionKinds {
				moves = append(moves, move.Move{From: from, To: to, Promotion: k})
			}
			return moves
		}
		return append(moves, move.Move{From: from, To: to, EnPassant: enPassant})
	}

	if one := move.Sq(row+dir, col); b.PieceAt(one).Empty() {
		moves = appendPawn(one, false)
		if row == startRow {
			if two := move.Sq(row+2*dir, col); b.PieceAt(two).Empty() {
				moves = append(moves, move.Move{From: from, To: two})
			}
		}
	}

	for _, dc := range [2]int{-1, 1} {
		tr, tc := row+dir, col+dc
		if !move.InBounds(tr, tc) {
			continue
		}
		to := move.Sq(tr, tc)
		if target := b.PieceAt(to); !target.Empty() && target.Color != c {
			moves = appendPawn(to, false)
		} else if to == b.EnPassantTarget() {
			moves = appendPawn(to, true)
		}
	}
	return moves
}

func offsetMoves(b *board.Board, from move.Square, c move.Color, offsets [][2]int, moves []move.Move) []move.Move {
	row, col := from.Row(), from.Col()
	for _, off := range offsets {
		tr, tc := row+off[0], col+off[1]
		if !move.InBounds(tr, tc) {
			continue
		}
		to := move.Sq(tr, tc)
		if target := b.PieceAt(to); target.Empty() || target.Color != c {
			moves = append(moves, move.Move{From: from, To: to})
		}
	}
	return moves
}

func slidingMoves(b *board.Board, from move.Square, c move.Color, dirs [][2]int, moves []move.Move) []move.Move {
	row, col := from.Row(), from.Col()
	for _, d := range dirs {
		for tr, tc := row+d[0], col+d[1]; move.InBounds(tr, tc); tr, tc = tr+d[0], tc+d[1] {
			to := move.Sq(tr, tc)
			target := b.PieceAt(to)
			if target.Empty() {
				moves = append(moves, move.Move{From: from, To: to})
				continue
			}
			if target.Color != c {
				moves = append(moves, move.Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

func castlingMoves(b *board.Board, from move.Square, c move.Color, moves []move.Move) []move.Move {
	back := 0
	if c == move.White {
		back = 7
	}
	if from != move.Sq(back, 4) || InCheck(b, c) {
		return moves
	}
	opp := c.Other()
	rights := b.CastlingFor(c)
	if rights.KingSide &&
		b.PieceAt(move.Sq(back, 5)).Empty() && b.PieceAt(move.Sq(back, 6)).Empty() &&
		!Attacked(b, move.Sq(back, 5), opp) && !Attacked(b, move.Sq(back, 6), opp) {
		moves = append(moves, move.Move{From: from, To: move.Sq(back, 6), Castling: true})
	}
	if rights.QueenSide &&
		b.PieceAt(move.Sq(back, 1)).Empty() && b.PieceAt(move.Sq(back, 2)).Empty() && b.PieceAt(move.Sq(back, 3)).Empty() &&
		!Attacked(b, move.Sq(back, 3), opp) && !Attacked(b, move.Sq(back, 2), opp) {
		moves = append(moves, move.Move{From: from, To: move.Sq(back, 2), Castling: true})
	}
	return moves
}
