package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/caissanet/caissa/move"
)

func mustParse(t *testing.T, s string) move.Move {
	t.Helper()
	m, err := move.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestStartingPosition(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	is.Equal(b.FEN(), StartingFEN)
	is.Equal(b.Turn(), move.White)
	is.Equal(b.EnPassantTarget(), move.NoSquare)
	is.Equal(b.HalfmoveClock(), 0)
	is.Equal(b.FullmoveNumber(), 1)
	is.Equal(b.Key(), b.computeKey())
}

func TestApplyPawnDoublePush(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	nb, err := b.ApplyMove(mustParse(t, "e2e4"))
	is.NoErr(err)
	is.Equal(nb.Turn(), move.Black)
	is.Equal(nb.EnPassantTarget().String(), "e3")
	is.Equal(nb.HalfmoveClock(), 0)
	is.Equal(nb.FullmoveNumber(), 1)
	is.Equal(nb.Key(), nb.computeKey())
	// receiver untouched
	is.Equal(b.FEN(), StartingFEN)

	loaded, err := FromFEN(nb.FEN())
	is.NoErr(err)
	is.Equal(loaded.Key(), nb.Key())
}

func TestHalfmoveClock(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	nb, err := b.ApplyMove(mustParse(t, "g1f3"))
	is.NoErr(err)
	is.Equal(nb.HalfmoveClock(), 1)
	nb, err = nb.ApplyMove(mustParse(t, "b8c6"))
	is.NoErr(err)
	is.Equal(nb.HalfmoveClock(), 2)
	is.Equal(nb.FullmoveNumber(), 2)
	nb, err = nb.ApplyMove(mustParse(t, "e2e4"))
	is.NoErr(err)
	is.Equal(nb.HalfmoveClock(), 0)
}

func TestKeyTransposition(t *testing.T) {
	is := is.New(t)
	play := func(moves ...string) *Board {
		b := StartingPosition()
		for _, ms := range moves {
			nb, err := b.ApplyMove(mustParse(t, ms))
			if err != nil {
				t.Fatal(err)
			}
			b = nb
		}
		return b
	}
	a := play("g1f3", "b8c6", "b1c3")
	c := play("b1c3", "b8c6", "g1f3")
	is.Equal(a.FEN(), c.FEN())
	is.Equal(a.Key(), c.Key())

	// knights coming back restores the starting key
	back := play("g1f3", "b8c6", "f3g1", "c6b8")
	is.Equal(back.Key(), StartingPosition().Key())
}

func TestEnPassantCapture(t *testing.T) {
	is := is.New(t)
	b, err := FromFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 3")
	is.NoErr(err)
	m := mustParse(t, "e5d6")
	m.EnPassant = true
	nb, err := b.ApplyMove(m)
	is.NoErr(err)
	// the captured pawn was on d5, beside the from-square
	is.True(nb.PieceAt(move.Sq(3, 3)).Empty())
	is.Equal(nb.PieceAt(move.Sq(2, 3)).Kind, move.Pawn)
	is.Equal(nb.HalfmoveClock(), 0)
	is.Equal(nb.Key(), nb.computeKey())
}

func TestCastlingMovesRook(t *testing.T) {
	is := is.New(t)
	b, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	is.NoErr(err)
	m := mustParse(t, "e1g1")
	m.Castling = true
	nb, err := b.ApplyMove(m)
	is.NoErr(err)
	is.Equal(nb.PieceAt(move.Sq(7, 6)).Kind, move.King)
	is.Equal(nb.PieceAt(move.Sq(7, 5)).Kind, move.Rook)
	is.True(nb.PieceAt(move.Sq(7, 7)).Empty())
	is.Equal(nb.CastlingFor(move.White), CastlingRights{})
	is.Equal(nb.CastlingFor(move.Black), CastlingRights{KingSide: true, QueenSide: true})
	is.Equal(nb.Key(), nb.computeKey())

	m = mustParse(t, "e1c1")
	m.Castling = true
	nb, err = b.ApplyMove(m)
	is.NoErr(err)
	is.Equal(nb.PieceAt(move.Sq(7, 2)).Kind, move.King)
	is.Equal(nb.PieceAt(move.Sq(7, 3)).Kind, move.Rook)
	is.True(nb.PieceAt(move.Sq(7, 0)).Empty())
}

func TestRightsLostOnRookMoveAndCapture(t *testing.T) {
	is := is.New(t)
	b, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	is.NoErr(err)
	nb, err := b.ApplyMove(mustParse(t, "h1h8"))
	is.NoErr(err)
	// white's kingside rook moved, black's got captured on its home
	is.Equal(nb.CastlingFor(move.White), CastlingRights{QueenSide: true})
	is.Equal(nb.CastlingFor(move.Black), CastlingRights{QueenSide: true})
	is.Equal(nb.Key(), nb.computeKey())
}

func TestPromotion(t *testing.T) {
	is := is.New(t)
	b, err := FromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	is.NoErr(err)
	nb, err := b.ApplyMove(mustParse(t, "a7a8q"))
	is.NoErr(err)
	is.Equal(nb.PieceAt(move.Sq(0, 0)).Kind, move.Queen)
	is.Equal(nb.Key(), nb.computeKey())

	_, err = b.ApplyMove(mustParse(t, "a7a8"))
	is.True(errors.Is(err, ErrInvalidPromotion))

	// promotion kind on a non-promoting move is also rejected
	_, err = b.ApplyMove(move.Move{From: move.Sq(7, 4), To: move.Sq(6, 4), Promotion: move.Queen})
	is.True(errors.Is(err, ErrInvalidPromotion))
}

func TestApplyStructuralErrors(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	_, err := b.ApplyMove(mustParse(t, "e4e5")) // empty from-square
	is.True(errors.Is(err, ErrIllegalMove))
	_, err = b.ApplyMove(mustParse(t, "e7e5")) // wrong color
	is.True(errors.Is(err, ErrIllegalMove))
}

func TestFromFENErrors(t *testing.T) {
	is := is.New(t)
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",          // too few fields
		"rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w XQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e5 0 1", // ep not on rank 3/6
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"Pnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", // pawn on back rank
		"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", // missing king
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0", // fullmove < 1
	}
	for _, fen := range bad {
		_, err := FromFEN(fen)
		is.True(errors.Is(err, ErrMalformedPosition))
	}
}

func TestFromFENDropsImpossibleRights(t *testing.T) {
	is := is.New(t)
	// king not on its home square; the claimed rights cannot be real
	b, err := FromFEN("rnbq1bnr/ppppkppp/8/8/8/8/PPPPKPPP/RNBQ1BNR w KQkq - 0 1")
	is.NoErr(err)
	is.Equal(b.CastlingFor(move.White), CastlingRights{})
	is.Equal(b.CastlingFor(move.Black), CastlingRights{})
}

func TestFENRoundTrip(t *testing.T) {
	is := is.New(t)
	fens := []string{
		StartingFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3pN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 3",
		"8/8/8/8/8/5k2/8/5K2 b - - 42 77",
	}
	for _, fen := range fens {
		b, err := FromFEN(fen)
		is.NoErr(err)
		is.Equal(b.FEN(), fen)
	}
}

func TestMirror(t *testing.T) {
	is := is.New(t)
	b := StartingPosition()
	m := b.Mirror()
	is.Equal(m.FEN(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	is.Equal(m.Mirror().FEN(), b.FEN())

	b, err := FromFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 3")
	is.NoErr(err)
	m = b.Mirror()
	is.Equal(m.FEN(), "4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 3")
}
