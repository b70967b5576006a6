// Package book implements the opening book: named opening lines replayed
// into a map keyed by position hash, probed before the engine is asked to
// search.
package book

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"

	"github.com/quintic/fianchetto/internal/board"
)

//go:embed openings.json
var defaultBookJSON []byte

// Entry is one book continuation for a position, annotated with the opening
// it belongs to.
type Entry struct {
	Move board.Move
	Name string
	Code string // ECO code
}

// Book maps position hashes to known continuations.
type Book struct {
	entries map[uint64][]Entry
}

// rawOpening is the JSON schema: an opening line as coordinate moves from
// the starting position.
type rawOpening struct {
	Name  string   `json:"name"`
	Code  string   `json:"code"`
	Moves []string `json:"moves"`
}

// New creates an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// LoadDefault loads the embedded opening set.
func LoadDefault() (*Book, error) {
	return LoadBytes(defaultBookJSON)
}

// Load reads an openings JSON file.
func Load(filename string) (*Book, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses openings JSON and replays every line over a scratch
// position, keying each continuation by the hash of the position it is
// played from. A line with an illegal move is rejected whole.
func LoadBytes(data []byte) (*Book, error) {
	var openings []rawOpening
	if err := json.Unmarshal(data, &openings); err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}

	b := New()
	for _, opening := range openings {
		if err := b.addLine(opening); err != nil {
			return nil, fmt.Errorf("load book: opening %q: %w", opening.Name, err)
		}
	}
	return b, nil
}

func (b *Book) addLine(opening rawOpening) error {
	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		return err
	}

	for i, ms := range opening.Moves {
		move, err := board.ParseMove(ms, pos)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if !pos.GenerateLegalMoves().Contains(move) {
			return fmt.Errorf("move %d: %s is illegal", i+1, ms)
		}

		b.add(pos.Hash, Entry{Move: move, Name: opening.Name, Code: opening.Code})
		pos.MakeMove(move)
	}
	return nil
}

// add records the entry unless the same move is already known for the
// position; lines sharing a prefix keep the first name seen.
func (b *Book) add(hash uint64, entry Entry) {
	for _, e := range b.entries[hash] {
		if e.Move == entry.Move {
			return
		}
	}
	b.entries[hash] = append(b.entries[hash], entry)
}

// Probe returns a uniformly random book continuation for the position. The
// move is re-verified against the generated legal moves, so a hash
// collision can cost a book hit but never an illegal move.
func (b *Book) Probe(pos *board.Position) (Entry, bool) {
	if b == nil {
		return Entry{}, false
	}
	entries := b.entries[pos.Hash]
	if len(entries) == 0 {
		return Entry{}, false
	}

	legal := pos.GenerateLegalMoves()
	candidates := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if legal.Contains(e.Move) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return Entry{}, false
	}
	return candidates[rand.IntN(len(candidates))], true
}

// ProbeAll returns every book continuation for the position, sorted by ECO
// code then name for stable output.
func (b *Book) ProbeAll(pos *board.Position) []Entry {
	if b == nil {
		return nil
	}
	entries := b.entries[pos.Hash]
	if len(entries) == 0 {
		return nil
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Size returns the number of distinct positions the book knows.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
