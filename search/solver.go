package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/caissanet/caissa/board"
	"github.com/caissanet/caissa/eval"
	"github.com/caissanet/caissa/move"
	"github.com/caissanet/caissa/movegen"
)

/**
 * Negamax with alpha-beta pruning, from pseudocode:

function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
(* Initial call for the root node *)
negamax(rootNode, depth, −∞, +∞, 1)
**/

const HugeNumber = 32000

// MateValue is the score of delivering checkmate at the root. Mates found
// deeper in the tree score MateValue minus the ply they occur at, so
// shorter mates are preferred. It must fit in the table entry's int16.
const MateValue = 30000

// MaxSearchDepth is bounded by the 6 depth bits in a table entry.
const MaxSearchDepth = 63

const HashMoveOffset = 100000

var (
	ErrNoLegalMoves = errors.New("no legal moves in this position")

	errBudgetExceeded = errors.New("search budget exceeded")
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type PVLine struct {
	Moves []move.Move
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(m move.Move, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, m)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d;", pvLine.score)
	for i := 0; i < len(pvLine.Moves); i++ {
		fmt.Fprintf(&sb, " %d: %s;", i+1, pvLine.Moves[i].String())
	}
	return sb.String()
}

// Result is what a search returns: the move to play from the root, its
// score from the mover's perspective, the principal variation that
// produced the score, the depth that was actually completed, and the
// number of nodes visited.
type Result struct {
	Move  move.Move
	Score int
	PV    []move.Move
	Depth int
	Nodes uint64
}

// Solver searches a position with iterative deepening. Root moves are
// searched in parallel, each on an independent full window, so the chosen
// move for a given depth and thread count of 1 is deterministic.
type Solver struct {
	ttable           *TranspositionTable
	threads          int
	tableMemFraction float64
	maxNodes         uint64

	nodes atomic.Uint64
}

func NewSolver() *Solver {
	return &Solver{
		ttable:           GlobalTranspositionTable,
		threads:          max(1, runtime.NumCPU()-1),
		tableMemFraction: 0.10,
	}
}

func (s *Solver) SetThreads(threads int) {
	if threads < 1 {
		threads = 1
	}
	s.threads = threads
}

// SetMaxNodes bounds the number of nodes visited. 0 means no bound.
func (s *Solver) SetMaxNodes(n uint64) {
	s.maxNodes = n
}

func (s *Solver) SetTableMemFraction(f float64) {
	s.tableMemFraction = f
}

func (s *Solver) SetTranspositionTable(tt *TranspositionTable) {
	s.ttable = tt
}

func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// Search finds the best move for the side to move, iteratively deepening
// from 1 to maxDepth plies. If the context expires or the node budget runs
// out mid-iteration, the deepest fully completed iteration is returned;
// depth 1 always completes. The only error condition is a root with no
// legal moves.
func (s *Solver) Search(ctx context.Context, b *board.Board, maxDepth int) (Result, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	if maxDepth > MaxSearchDepth {
		maxDepth = MaxSearchDepth
	}
	rootMoves := movegen.LegalMoves(b)
	if len(rootMoves) == 0 {
		return Result{}, fmt.Errorf("%w (%s to move)", ErrNoLegalMoves, b.Turn())
	}
	if s.ttable.table == nil {
		s.ttable.Reset(s.tableMemFraction)
	}
	if s.threads > 1 {
		s.ttable.SetMultiThreadedMode()
	} else {
		s.ttable.SetSingleThreadedMode()
	}
	s.nodes.Store(0)
	tstart := time.Now()

	var best Result
	completed := false
	for depth := 1; depth <= maxDepth; depth++ {
		res, err := s.searchRoot(ctx, b, rootMoves, depth)
		if err != nil {
			// Budget ran out mid-iteration. The last completed
			// iteration stands.
			log.Debug().Int("depth", depth).Msg("iteration-aborted")
			break
		}
		best = res
		completed = true
		// Search last iteration's best move first in the next one.
		promote(rootMoves, res.Move)
		log.Debug().Int("depth", depth).
			Int("score", res.Score).
			Str("pv", movesString(res.PV)).
			Msg("iteration-complete")
	}
	if !completed {
		// The budget expired before even depth 1 finished. A depth-1
		// pass is just one evaluation per root move; run it outside
		// the budget so the caller always gets a move.
		savedMaxNodes := s.maxNodes
		s.maxNodes = 0
		res, err := s.searchRoot(context.Background(), b, rootMoves, 1)
		s.maxNodes = savedMaxNodes
		if err != nil {
			return Result{}, err
		}
		best = res
	}
	best.Nodes = s.nodes.Load()
	log.Info().Int("depth", best.Depth).
		Int("score", best.Score).
		Uint64("nodes", best.Nodes).
		Uint64("ttable-created", s.ttable.created.Load()).
		Uint64("ttable-lookups", s.ttable.lookups.Load()).
		Uint64("ttable-hits", s.ttable.hits.Load()).
		Uint64("ttable-t2collisions", s.ttable.t2collisions.Load()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("search-returning")
	return best, nil
}

type rootScore struct {
	score int
	pv    PVLine
	done  bool
}

// searchRoot runs one iteration at the given depth. Every root move gets
// its own goroutine and a full (-HugeNumber, HugeNumber) window, so the
// results do not depend on which goroutine finishes first; ties between
// equal scores go to the earlier move in rootMoves.
func (s *Solver) searchRoot(ctx context.Context, b *board.Board, rootMoves []move.Move, depth int) (Result, error) {
	results := make([]rootScore, len(rootMoves))
	g := errgroup.Group{}
	g.SetLimit(s.threads)
	for i, m := range rootMoves {
		i, m := i, m
		g.Go(func() error {
			child, err := b.ApplyMove(m)
			if err != nil {
				return err
			}
			s.nodes.Add(1)
			var pv PVLine
			value, err := s.negamax(ctx, child, depth-1, 1, -HugeNumber, HugeNumber, &pv)
			if err != nil {
				return err
			}
			results[i] = rootScore{score: -value, pv: pv, done: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	bestIdx := 0
	for i := 1; i < len(results); i++ {
		if results[i].score > results[bestIdx].score {
			bestIdx = i
		}
	}
	pv := append([]move.Move{rootMoves[bestIdx]}, results[bestIdx].pv.Moves...)
	return Result{
		Move:  rootMoves[bestIdx],
		Score: results[bestIdx].score,
		PV:    pv,
		Depth: depth,
	}, nil
}

func (s *Solver) negamax(ctx context.Context, b *board.Board, depth, ply, α, β int, pv *PVLine) (int, error) {
	if ctx.Err() != nil {
		return 0, errBudgetExceeded
	}
	if s.maxNodes > 0 && s.nodes.Load() >= s.maxNodes {
		return 0, errBudgetExceeded
	}

	// Note: if I return early as in here, the PV might not be complete.
	// (the transposition table is cutting off the iterations)
	// The value should still be correct, though.
	alphaOrig := α
	var hashMove move.Move
	haveHashMove := false

	ttEntry := s.ttable.lookup(b.Key())
	if ttEntry.valid() && int(ttEntry.depth()) >= depth {
		score := int(ttEntry.score)
		flag := ttEntry.flag()
		if flag == TTExact {
			return score, nil
		} else if flag == TTLower {
			α = max(α, score)
		} else if flag == TTUpper {
			β = min(β, score)
		}
		if α >= β {
			return score, nil
		}
		// search hash move first.
		if ttEntry.move().valid() {
			hashMove = ttEntry.move().unpack()
			haveHashMove = true
		}
	}

	if b.HalfmoveClock() >= 100 {
		return 0, nil
	}
	children := movegen.LegalMoves(b)
	if len(children) == 0 {
		if movegen.InCheck(b, b.Turn()) {
			// Mated here; later mates score closer to zero.
			return -(MateValue - ply), nil
		}
		return 0, nil
	}
	if depth <= 0 {
		return evalForMover(b), nil
	}

	orderMoves(b, children, hashMove, haveHashMove)

	bestValue := -HugeNumber
	var bestMove move.Move
	var childPV PVLine
	for _, child := range children {
		nb, err := b.ApplyMove(child)
		if err != nil {
			return 0, err
		}
		s.nodes.Add(1)
		value, err := s.negamax(ctx, nb, depth-1, ply+1, -β, -α, &childPV)
		if err != nil {
			return 0, err
		}
		if -value > bestValue {
			bestValue = -value
			bestMove = child
			pv.Update(child, childPV, bestValue)
		}
		α = max(α, bestValue)
		if bestValue >= β {
			break // beta cut-off
		}
		childPV.Clear() // clear the child node's pv for the next child node
	}

	entryToStore := TableEntry{
		score: int16(bestValue),
	}
	var flag uint8
	if bestValue <= alphaOrig {
		flag = TTUpper
	} else if bestValue >= β {
		flag = TTLower
	} else {
		flag = TTExact
	}
	entryToStore.flagAndDepth = flag<<6 + uint8(depth)
	entryToStore.play = packMove(bestMove)
	s.ttable.store(b.Key(), entryToStore)
	return bestValue, nil
}

// orderMoves sorts captures by victim value, with the hash move, when
// present, ahead of everything. The sort is stable so equal estimates
// keep generation order.
func orderMoves(b *board.Board, moves []move.Move, hashMove move.Move, haveHashMove bool) {
	type scored struct {
		m   move.Move
		est int
	}
	scoredMoves := make([]scored, len(moves))
	for i, m := range moves {
		est := 0
		if m.EnPassant {
			est = eval.PieceValue[move.Pawn]
		} else if victim := b.PieceAt(m.To); !victim.Empty() {
			est = eval.PieceValue[victim.Kind]
		}
		if haveHashMove && m.Matches(hashMove) {
			est += HashMoveOffset
		}
		scoredMoves[i] = scored{m: m, est: est}
	}
	sort.SliceStable(scoredMoves, func(i, j int) bool {
		return scoredMoves[i].est > scoredMoves[j].est
	})
	for i := range scoredMoves {
		moves[i] = scoredMoves[i].m
	}
}

// evalForMover returns the static evaluation from the side to move's
// perspective, as negamax wants it.
func evalForMover(b *board.Board) int {
	score := eval.Evaluate(b)
	if b.Turn() == move.Black {
		return -score
	}
	return score
}

// promote moves m to the front of moves, preserving the order of
// everything else.
func promote(moves []move.Move, m move.Move) {
	for i := range moves {
		if moves[i] == m {
			copy(moves[1:i+1], moves[:i])
			moves[0] = m
			return
		}
	}
}

func movesString(moves []move.Move) string {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	return strings.Join(strs, " ")
}
