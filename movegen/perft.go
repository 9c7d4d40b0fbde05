package movegen

import "github.com/caissanet/caissa/board"

// Perft counts the leaf positions reachable in exactly depth plies.
// https://www.chessprogramming.org/Perft
func Perft(b *board.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := LegalMoves(b)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		nb, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		nodes += Perft(nb, depth-1)
	}
	return nodes
}
