// Package eval is the static position evaluator. Evaluate returns
// centipawns from White's perspective, with no search behind it, so
// it is cheap enough to call on every position change. Every term is
// a per-color difference, which makes the function exactly
// antisymmetric under mirroring (swap colors, reflect ranks).
package eval

import (
	"github.com/samber/lo"

	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/move"
	"github.com/caissanet/caissa/movegen"
)

// PieceValue holds material values in centipawns, indexed by kind.
// The king carries no material value.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 0}

// mobilityWeight scales the pseudo-mobility of each piece kind.
var mobilityWeight = [7]int{0, 0, 4, 4, 2, 1, 0}

const (
	bishopPairBonus  = 50
	doubledPenalty   = 15
	isolatedPenalty  = 15
	passedBase       = 20
	passedPerRank    = 5
	openFileBonus    = 15
	semiOpenBonus    = 7
	shieldPenalty    = 12
	mobilityScale    = 3
	endgamePhase     = 0.7
	phaseMaterialCap = 4000.0
)

// Evaluate scores b in centipawns, positive favoring White.
func Evaluate(b *board.Board) int {
	phase := gamePhase(b)

	material, pst := 0, 0
	var bishops [2]int
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p.Empty() {
			continue
		}
		sign := 1
		idx := int(sq)
		if p.Color == move.Black {
			sign = -1
			idx = int(move.Sq(7-sq.Row(), sq.Col()))
		}
		material += sign * PieceValue[p.Kind]
		if p.Kind == move.King {
			blended := (1-phase)*float64(kingTableMid[idx]) + phase*float64(kingTableEnd[idx])
			pst += sign * int(blended)
		} else {
			pst += sign * pieceTables[p.Kind][idx]
		}
		if p.Kind == move.Bishop {
			bishops[p.Color]++
		}
	}

	pair := 0
	if bishops[move.White] >= 2 {
		pair += bishopPairBonus
	}
	if bishops[move.Black] >= 2 {
		pair -= bishopPairBonus
	}

	mobility := (weightedMobility(b, move.White) - weightedMobility(b, move.Black)) * mobilityScale
	pawns := pawnStructure(b, move.White) - pawnStructure(b, move.Black)
	rooks := rookFiles(b, move.White) - rookFiles(b, move.Black)
	safety := kingSafety(b, move.White, phase) - kingSafety(b, move.Black, phase)

	return material + pst + pair + mobility + pawns + rooks + safety
}

// gamePhase blends 0.0 (middlegame) to 1.0 (deep endgame) from the
// non-pawn material left on the board.
func gamePhase(b *board.Board) float64 {
	total := 0
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p.Empty() || p.Kind == move.Pawn {
			continue
		}
		total += PieceValue[p.Kind]
	}
	phase := 1.0 - float64(total)/phaseMaterialCap
	if phase < 0 {
		return 0
	}
	if phase > 1 {
		return 1
	}
	return phase
}

func weightedMobility(b *board.Board, c move.Color) int {
	return lo.SumBy(movegen.PseudoMoves(b, c, false), func(m move.Move) int {
		return mobilityWeight[b.PieceAt(m.From).Kind]
	})
}

// pawnStructure penalizes doubled and isolated pawns and rewards
// passed pawns, scaled by how far they have advanced.
func pawnStructure(b *board.Board, c move.Color) int {
	var filePawns [8]int
	var pawns []move.Square
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p.Kind == move.Pawn && p.Color == c {
			filePawns[sq.Col()]++
			pawns = append(pawns, sq)
		}
	}

	score := 0
	opp := c.Other()
	for _, sq := range pawns {
		file := sq.Col()
		if filePawns[file] > 1 {
			score -= doubledPenalty
		}
		isolated := true
		for _, adj := range [2]int{file - 1, file + 1} {
			if adj >= 0 && adj < 8 && filePawns[adj] > 0 {
				isolated = false
			}
		}
		if isolated {
			score -= isolatedPenalty
		}
		if passed(b, sq, c, opp) {
			rank := 7 - sq.Row()
			if c == move.Black {
				rank = sq.Row()
			}
			score += passedBase + rank*passedPerRank
		}
	}
	return score
}

func passed(b *board.Board, sq move.Square, c, opp move.Color) bool {
	row, file := sq.Row(), sq.Col()
	for f := file - 1; f <= file+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		for r := 0; r < 8; r++ {
			ahead := r < row
			if c == move.Black {
				ahead = r > row
			}
			if !ahead {
				continue
			}
			p := b.PieceAt(move.Sq(r, f))
			if p.Kind == move.Pawn && p.Color == opp {
				return false
			}
		}
	}
	return true
}

func rookFiles(b *board.Board, c move.Color) int {
	opp := c.Other()
	bonus := 0
	for sq := move.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p.Kind != move.Rook || p.Color != c {
			continue
		}
		ownPawn, oppPawn := false, false
		for r := 0; r < 8; r++ {
			q := b.PieceAt(move.Sq(r, sq.Col()))
			if q.Kind != move.Pawn {
				continue
			}
			if q.Color == c {
				ownPawn = true
			} else if q.Color == opp {
				oppPawn = true
			}
		}
		if !ownPawn && !oppPawn {
			bonus += openFileBonus
		} else if !ownPawn {
			bonus += semiOpenBonus
		}
	}
	return bonus
}

// kingSafety charges for missing pawn shield in front of the king.
// Keyed to the king's actual square so the term mirrors cleanly; it
// fades out entirely in the endgame.
func kingSafety(b *board.Board, c move.Color, phase float64) int {
	if phase > endgamePhase {
		return 0
	}
	ksq, ok := b.KingSquare(c)
	if !ok {
		return 0
	}
	dir := -1
	if c == move.Black {
		dir = 1
	}
	row, col := ksq.Row(), ksq.Col()
	score := 0
	for f := col - 1; f <= col+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		covered := false
		for _, r := range [2]int{row + dir, row + 2*dir} {
			if r < 0 || r > 7 {
				continue
			}
			p := b.PieceAt(move.Sq(r, f))
			if p.Kind == move.Pawn && p.Color == c {
				covered = true
			}
		}
		if !covered {
			score -= shieldPenalty
		}
	}
	return score
}
