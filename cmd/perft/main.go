// Command perft counts move-generation nodes to a fixed depth, splitting
// the root moves across workers. Its counts are checked against published
// reference values when validating the move generator.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quintic/fianchetto/internal/board"
)

var (
	fen    = flag.String("fen", board.StartFEN, "position in FEN")
	depth  = flag.Int("depth", 5, "perft depth in plies")
	divide = flag.Bool("divide", false, "print the node count under each root move")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("bad position: %v", err)
	}
	if *depth < 1 {
		log.Fatalf("depth must be at least 1")
	}

	start := time.Now()
	total, lines, err := parallelPerft(pos, *depth)
	if err != nil {
		log.Fatalf("perft: %v", err)
	}
	elapsed := time.Since(start)

	if *divide {
		sort.Slice(lines, func(i, j int) bool { return lines[i].move < lines[j].move })
		for _, l := range lines {
			fmt.Printf("%s: %d\n", l.move, l.count)
		}
	}

	nps := float64(total) / elapsed.Seconds()
	fmt.Printf("perft(%d) = %d  (%v, %.0f nodes/s)\n", *depth, total, elapsed.Round(time.Millisecond), nps)
}

type rootLine struct {
	move  string
	count uint64
}

// parallelPerft splits the root moves across workers, each counting its
// subtree on a private copy of the position.
func parallelPerft(pos *board.Position, depth int) (uint64, []rootLine, error) {
	moves := pos.GenerateLegalMoves()

	var (
		mu    sync.Mutex
		total uint64
		lines []rootLine
	)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		child := pos.Copy()
		child.MakeMove(m)

		g.Go(func() error {
			count := perft(child, depth-1)
			mu.Lock()
			total += count
			lines = append(lines, rootLine{move: m.String(), count: count})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	return total, lines, nil
}

func perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}
