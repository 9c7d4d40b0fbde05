package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/move"
)

func fromFEN(t *testing.T, fen string) *board.Board {
	t.Helper()
	b, err := board.FromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestStartingMoves(t *testing.T) {
	is := is.New(t)
	moves := LegalMoves(board.StartingPosition())
	is.Equal(len(moves), 20)
}

func TestLegalMovesDeterministic(t *testing.T) {
	is := is.New(t)
	b := fromFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3pN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	a := LegalMoves(b)
	c := LegalMoves(b)
	is.Equal(len(a), len(c))
	for i := range a {
		is.Equal(a[i], c[i])
	}
}

func TestCheckEvasionsOnly(t *testing.T) {
	is := is.New(t)
	// White king on e1 checked by the rook on e8; every legal move
	// must address the check.
	b := fromFEN(t, "4r1k1/8/8/8/8/8/3P4/3QK3 w - - 0 1")
	for _, m := range LegalMoves(b) {
		nb, err := b.ApplyMove(m)
		is.NoErr(err)
		is.True(!InCheck(nb, move.White))
	}
	is.True(InCheck(b, move.White))
}

func TestCastlingGeneration(t *testing.T) {
	is := is.New(t)
	hasMove := func(moves []move.Move, s string) bool {
		for _, m := range moves {
			if m.String() == s {
				return true
			}
		}
		return false
	}

	b := fromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	moves := LegalMoves(b)
	is.True(hasMove(moves, "e1g1"))
	is.True(hasMove(moves, "e1c1"))

	// transit square f1 attacked: no kingside castle
	b = fromFEN(t, "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1")
	moves = LegalMoves(b)
	is.True(!hasMove(moves, "e1g1"))
	is.True(hasMove(moves, "e1c1"))

	// king in check: no castling at all
	b = fromFEN(t, "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1")
	moves = LegalMoves(b)
	is.True(!hasMove(moves, "e1g1"))
	is.True(!hasMove(moves, "e1c1"))

	// path occupied on the queenside
	b = fromFEN(t, "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1")
	moves = LegalMoves(b)
	is.True(hasMove(moves, "e1g1"))
	is.True(!hasMove(moves, "e1c1"))
}

func TestEnPassantPinned(t *testing.T) {
	is := is.New(t)
	// Capturing en passant would clear the fourth rank and expose the
	// black king to the queen.
	b := fromFEN(t, "8/8/8/8/k2Pp2Q/8/8/4K3 b - d3 0 1")
	for _, m := range LegalMoves(b) {
		is.True(!m.EnPassant)
	}
}

func TestPromotionsEnumerated(t *testing.T) {
	is := is.New(t)
	b := fromFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	kinds := map[move.PieceKind]bool{}
	for _, m := range LegalMoves(b) {
		if m.From == move.Sq(1, 0) {
			kinds[m.Promotion] = true
		}
	}
	is.Equal(len(kinds), 4)
	is.True(kinds[move.Queen] && kinds[move.Rook] && kinds[move.Bishop] && kinds[move.Knight])
}

func TestPerftStartingPosition(t *testing.T) {
	is := is.New(t)
	b := board.StartingPosition()
	is.Equal(Perft(b, 0), uint64(1))
	is.Equal(Perft(b, 1), uint64(20))
	is.Equal(Perft(b, 2), uint64(400))
	is.Equal(Perft(b, 3), uint64(8902))
	is.Equal(Perft(b, 4), uint64(197281))
}

func TestPerftKnownPositions(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		fen   string
		depth int
		nodes uint64
	}{
		// https://www.chessprogramming.org/Perft_Results
		{"r3k2r/p1ppqpb1/bn2pnp1/3pN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
		{"r3k2r/p1ppqpb1/bn2pnp1/3pN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 1, 14},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 2, 191},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 1, 6},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 2, 264},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 1, 44},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 2, 1486},
	}
	for _, c := range cases {
		b := fromFEN(t, c.fen)
		is.Equal(Perft(b, c.depth), c.nodes)
	}
}
