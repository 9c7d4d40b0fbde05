package search

import "github.com/caissanet/caissa/move"

// packedMove squeezes a move into a transposition table entry:
// bits 0-5 the from-square, 6-11 the to-square, 12-14 the promotion
// kind, 15 en passant, 16 castling. Bit 17 marks presence so that the
// zero value means "no move".
type packedMove uint32

const packedPresent packedMove = 1 << 17

func packMove(m move.Move) packedMove {
	p := packedMove(m.From) | packedMove(m.To)<<6 | packedMove(m.Promotion)<<12
	if m.EnPassant {
		p |= 1 << 15
	}
	if m.Castling {
		p |= 1 << 16
	}
	return p | packedPresent
}

func (p packedMove) valid() bool {
	return p&packedPresent != 0
}

func (p packedMove) unpack() move.Move {
	return move.Move{
		From:      move.Square(p & 63),
		To:        move.Square(p >> 6 & 63),
		Promotion: move.PieceKind(p >> 12 & 7),
		EnPassant: p&(1<<15) != 0,
		Castling:  p&(1<<16) != 0,
	}
}
