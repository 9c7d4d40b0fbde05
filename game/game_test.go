package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/move"
)

func playAll(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, ms := range moves {
		m, err := move.Parse(ms)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.PlayMove(m); err != nil {
			t.Fatalf("playing %s: %v", ms, err)
		}
	}
}

func TestFoolsMate(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	playAll(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	is.Equal(g.Status(), Checkmate)
	is.Equal(ResultString(g.Status(), g.Board().Turn()), "Checkmate! Black wins.")
}

func TestScholarsMate(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	playAll(t, g, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")
	is.Equal(g.Status(), Checkmate)
	is.Equal(ResultString(g.Status(), g.Board().Turn()), "Checkmate! White wins.")
}

func TestStalemate(t *testing.T) {
	is := is.New(t)
	g, err := FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	is.NoErr(err)
	is.Equal(g.Status(), Stalemate)
	is.Equal(ResultString(Stalemate, move.Black), "Stalemate!")
}

func TestCheckIsNotTerminal(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	playAll(t, g, "e2e4", "e7e5", "d1h5", "g8f6", "h5e5")
	is.Equal(g.Status(), Check)
	is.True(!g.Status().Terminal())
}

func TestFiftyMoveRule(t *testing.T) {
	is := is.New(t)
	g, err := FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 99 80")
	is.NoErr(err)
	is.Equal(g.Status(), Ongoing)
	playAll(t, g, "a1a2")
	is.Equal(g.Status(), DrawFiftyMove)
	is.True(g.Status().Terminal())
}

func TestInsufficientMaterial(t *testing.T) {
	is := is.New(t)
	drawn := []string{
		"4k3/8/8/8/8/8/8/4K3 w - - 0 1",     // bare kings
		"4k3/8/8/8/8/8/8/2B1K3 w - - 0 1",   // lone bishop
		"4k3/8/8/8/8/8/8/1N2K3 b - - 0 1",   // lone knight
		"4k3/8/2b5/8/8/5B2/8/4K3 w - - 0 1", // bishops on same color
	}
	for _, fen := range drawn {
		g, err := FromFEN(fen)
		is.NoErr(err)
		is.Equal(g.Status(), DrawInsufficientMaterial)
	}

	live := []string{
		"4k3/8/2b5/8/8/2B5/8/4K3 w - - 0 1", // opposite-colored bishops
		"4k3/8/8/8/8/8/1N6/1N2K3 w - - 0 1", // two knights
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",   // a pawn can promote
	}
	for _, fen := range live {
		g, err := FromFEN(fen)
		is.NoErr(err)
		is.True(g.Status() != DrawInsufficientMaterial)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	playAll(t, g, "g1f3", "b8c6", "f3g1", "c6b8")
	is.Equal(g.Status(), Ongoing)
	playAll(t, g, "g1f3", "b8c6", "f3g1", "c6b8")
	// the starting position has now occurred three times
	is.Equal(g.Status(), DrawRepetition)
}

func TestPlayMoveRejectsIllegal(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	err := g.PlayMove(move.Move{From: move.Sq(6, 4), To: move.Sq(3, 4)}) // e2e5
	is.True(errors.Is(err, board.ErrIllegalMove))
	is.Equal(len(g.Moves()), 0)

	// the d2 pawn screens the king from the b4 bishop and cannot move
	g2, err := FromFEN("rnbqk1nr/pppp1ppp/8/4p3/1b2P3/8/PPPP1PPP/RNBQKBNR w KQkq - 1 3")
	is.NoErr(err)
	err = g2.PlayMove(move.Move{From: move.Sq(6, 3), To: move.Sq(5, 3)})
	is.True(errors.Is(err, board.ErrIllegalMove))
}

func TestPlayMovePromotionMismatch(t *testing.T) {
	is := is.New(t)
	g, err := FromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	is.NoErr(err)
	err = g.PlayMove(move.Move{From: move.Sq(1, 0), To: move.Sq(0, 0)})
	is.True(errors.Is(err, board.ErrInvalidPromotion))

	err = g.PlayMove(move.Move{From: move.Sq(1, 0), To: move.Sq(0, 0), Promotion: move.Queen})
	is.NoErr(err)
	is.Equal(g.Board().PieceAt(move.Sq(0, 0)).Kind, move.Queen)
}

func TestResolveRestoresGeneratorFlags(t *testing.T) {
	is := is.New(t)
	// coordinate input "e1g1" resolves to the castling move
	g, err := FromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	is.NoErr(err)
	playAll(t, g, "e1g1")
	is.Equal(g.Board().PieceAt(move.Sq(7, 5)).Kind, move.Rook)
	is.Equal(g.Moves()[0].Castling, true)

	// and "e5d6" resolves to the en-passant capture
	g, err = FromFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 3")
	is.NoErr(err)
	playAll(t, g, "e5d6")
	is.Equal(g.Moves()[0].EnPassant, true)
	is.True(g.Board().PieceAt(move.Sq(3, 3)).Empty())
}

func TestUnplayLastMove(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	startFEN := g.Board().FEN()
	playAll(t, g, "e2e4", "c7c5")
	g.UnplayLastMove()
	is.Equal(len(g.Moves()), 1)
	g.UnplayLastMove()
	is.Equal(g.Board().FEN(), startFEN)
	is.Equal(len(g.History()), 1)
	// rewinding past the start is a no-op
	g.UnplayLastMove()
	is.Equal(g.Board().FEN(), startFEN)
}

func TestApply(t *testing.T) {
	is := is.New(t)
	b := board.StartingPosition()
	m, err := move.Parse("e2e4")
	is.NoErr(err)
	nb, err := Apply(b, m)
	is.NoErr(err)
	is.Equal(nb.Turn(), move.Black)

	_, err = Apply(b, move.Move{From: move.Sq(6, 4), To: move.Sq(3, 4)})
	is.True(errors.Is(err, board.ErrIllegalMove))
}
