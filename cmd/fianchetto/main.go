// Command fianchetto analyzes a chess position: probe the opening book,
// otherwise search within the given budget, caching completed analyses.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/quintic/fianchetto/internal/board"
	"github.com/quintic/fianchetto/internal/book"
	"github.com/quintic/fianchetto/internal/engine"
	"github.com/quintic/fianchetto/internal/storage"
)

var (
	fen        = flag.String("fen", board.StartFEN, "position to analyze in FEN")
	depth      = flag.Int("depth", engine.DefaultDepth, "maximum search depth in plies")
	moveTime   = flag.Duration("movetime", 0, "time budget for the search (e.g. 500ms, 2s)")
	ttSize     = flag.Int("tt", 64, "transposition table size in MB")
	bookPath   = flag.String("book", "", "openings JSON file (default: embedded book)")
	noBook     = flag.Bool("nobook", false, "skip the opening book probe")
	noCache    = flag.Bool("nocache", false, "bypass the persistent analysis cache")
	showHist   = flag.Int("history", 0, "print the N most recent analyses and exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *showHist > 0 {
		printHistory(*showHist)
		return
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("bad position: %v", err)
	}
	if err := pos.Validate(); err != nil {
		log.Fatalf("bad position: %v", err)
	}

	if !*noBook {
		if entry, ok := probeBook(pos); ok {
			fmt.Printf("bestmove %s (book: %s %s)\n", entry.Move, entry.Code, entry.Name)
			return
		}
	}

	var store *storage.Storage
	if !*noCache {
		store, err = storage.OpenDefault()
		if err != nil {
			log.Printf("analysis cache unavailable: %v", err)
		} else {
			defer store.Close()
		}
	}

	if store != nil && *moveTime == 0 {
		if rec, ok, err := store.LookupAnalysis(*fen, *depth); err != nil {
			log.Printf("cache lookup: %v", err)
		} else if ok {
			fmt.Printf("bestmove %s score %s nodes %d (cached)\n",
				rec.BestMove, formatScore(rec.Score), rec.Nodes)
			return
		}
	}

	eng := engine.NewEngine(*ttSize)
	eng.OnInfo = func(info engine.SearchInfo) {
		log.Printf("depth %d score %s nodes %d time %v pv %s",
			info.Depth, formatScore(info.Score), info.Nodes,
			info.Elapsed.Round(time.Millisecond), formatPV(info.PV))
	}

	limits := engine.SearchLimits{Depth: *depth, MoveTime: *moveTime}
	result, err := eng.FindBestMove(pos, limits, nil)
	if err != nil {
		log.Fatalf("search: %v", err)
	}

	fmt.Printf("bestmove %s score %s depth %d nodes %d time %v\n",
		result.BestMove, formatScore(result.Score), result.Depth,
		result.Nodes, result.Elapsed.Round(time.Millisecond))

	// Time-limited results depend on the machine; only depth-limited
	// analyses are worth caching.
	if store != nil && *moveTime == 0 && result.Depth == *depth {
		rec := &storage.AnalysisRecord{
			FEN:      *fen,
			Depth:    result.Depth,
			BestMove: result.BestMove.String(),
			Score:    result.Score,
			Nodes:    result.Nodes,
			Elapsed:  result.Elapsed,
		}
		if err := store.SaveAnalysis(rec); err != nil {
			log.Printf("cache store: %v", err)
		}
	}
}

func probeBook(pos *board.Position) (book.Entry, bool) {
	var (
		b   *book.Book
		err error
	)
	if *bookPath != "" {
		b, err = book.Load(*bookPath)
	} else {
		b, err = book.LoadDefault()
	}
	if err != nil {
		log.Printf("opening book unavailable: %v", err)
		return book.Entry{}, false
	}
	return b.Probe(pos)
}

func printHistory(limit int) {
	store, err := storage.OpenDefault()
	if err != nil {
		log.Fatalf("analysis history unavailable: %v", err)
	}
	defer store.Close()

	records, err := store.History(limit)
	if err != nil {
		log.Fatalf("analysis history: %v", err)
	}
	for _, rec := range records {
		fmt.Printf("%s depth %d bestmove %s score %s  %s\n",
			rec.CreatedAt.Format(time.DateTime), rec.Depth, rec.BestMove,
			formatScore(rec.Score), rec.FEN)
	}
}

func formatScore(score int) string {
	if engine.IsMateScore(score) {
		return fmt.Sprintf("mate %d", engine.MateIn(score))
	}
	return fmt.Sprintf("cp %d", score)
}

func formatPV(pv []board.Move) string {
	parts := make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
