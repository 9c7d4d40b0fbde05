package move

import (
	"testing"

	"github.com/matryer/is"
)

func TestSquareRoundTrip(t *testing.T) {
	is := is.New(t)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := Sq(row, col)
			is.Equal(sq.Row(), row)
			is.Equal(sq.Col(), col)
			parsed, err := SquareFromString(sq.String())
			is.NoErr(err)
			is.Equal(parsed, sq)
		}
	}
	is.Equal(Sq(0, 0).String(), "a8")
	is.Equal(Sq(7, 7).String(), "h1")
	is.Equal(Sq(4, 4).String(), "e4")
	is.Equal(NoSquare.String(), "-")
}

func TestSquareFromStringErrors(t *testing.T) {
	is := is.New(t)
	for _, bad := range []string{"", "e", "e9", "i4", "e44", "4e"} {
		_, err := SquareFromString(bad)
		is.True(err != nil)
	}
}

func TestParse(t *testing.T) {
	is := is.New(t)
	m, err := Parse("e2e4")
	is.NoErr(err)
	is.Equal(m.From, Sq(6, 4))
	is.Equal(m.To, Sq(4, 4))
	is.Equal(m.Promotion, NoKind)
	is.Equal(m.String(), "e2e4")

	m, err = Parse("a7a8n")
	is.NoErr(err)
	is.Equal(m.Promotion, Knight)
	is.Equal(m.String(), "a7a8n")

	for _, bad := range []string{"", "e2", "e2e9", "e2e4x", "e7e8k", "e7e8p"} {
		_, err := Parse(bad)
		is.True(err != nil)
	}
}

func TestMatchesIgnoresFlags(t *testing.T) {
	is := is.New(t)
	typed, err := Parse("e5d6")
	is.NoErr(err)
	generated := Move{From: typed.From, To: typed.To, EnPassant: true}
	is.True(generated.Matches(typed))
	is.True(!generated.Matches(Move{From: typed.From, To: typed.To, Promotion: Queen}))
}

func TestColorOther(t *testing.T) {
	is := is.New(t)
	is.Equal(White.Other(), Black)
	is.Equal(Black.Other(), White)
}

func TestKindLetters(t *testing.T) {
	is := is.New(t)
	for _, k := range []PieceKind{Pawn, Knight, Bishop, Rook, Queen, King} {
		parsed, ok := KindFromLetter(k.Letter())
		is.True(ok)
		is.Equal(parsed, k)
	}
	_, ok := KindFromLetter('x')
	is.True(!ok)
}
