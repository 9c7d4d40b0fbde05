// Package zobrist provides the random keys for incrementally
// updatable position hashing.
// https://en.wikipedia.org/wiki/Zobrist_hashing
package zobrist

import "lukechampine.com/frand"

const bignum = 1<<63 - 2

// The key tables are keyed on primitive values (color, kind, square as
// small integers) so that the board package can XOR keys in and out as
// it applies moves without this package needing to know board types.
var (
	pieceKeys  [2][7][64]uint64 // color, kind (1..6), square
	castleKeys [2][2]uint64     // color, side (0 = king side)
	epFileKeys [8]uint64
	sideKey    uint64
)

func init() {
	for c := 0; c < 2; c++ {
		for k := 1; k < 7; k++ {
			for sq := 0; sq < 64; sq++ {
				pieceKeys[c][k][sq] = frand.Uint64n(bignum) + 1
			}
		}
		for s := 0; s < 2; s++ {
			castleKeys[c][s] = frand.Uint64n(bignum) + 1
		}
	}
	for f := 0; f < 8; f++ {
		epFileKeys[f] = frand.Uint64n(bignum) + 1
	}
	sideKey = frand.Uint64n(bignum) + 1
}

// Piece returns the key for a piece of the given color and kind on the
// given square.
func Piece(color, kind, square uint8) uint64 {
	return pieceKeys[color][kind][square]
}

// Castle returns the key for one castling right.
func Castle(color uint8, kingSide bool) uint64 {
	side := 1
	if kingSide {
		side = 0
	}
	return castleKeys[color][side]
}

// EPFile returns the key for an en-passant target on the given file.
func EPFile(file int) uint64 {
	return epFileKeys[file]
}

// Side is the key toggled when Black is to move.
func Side() uint64 {
	return sideKey
}
