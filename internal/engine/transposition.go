package engine

import "github.com/quintic/fianchetto/internal/board"

// Bound describes what a stored score proves about the true score of the
// position.
type Bound uint8

const (
	BoundExact Bound = iota // score is exact
	BoundLower              // search failed high: true score >= Score
	BoundUpper              // search failed low: true score <= Score
)

// TTEntry is one transposition table slot.
//
// The full 64-bit zobrist key is stored and re-checked on probe, so a wrong
// hit requires two positions sharing a full 64-bit hash. That residual
// probability is accepted: entries only steer the search, and verifying board
// contents on every probe would cost more than the risk is worth.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int16
	Depth int8
	Bound Bound
	Age   uint8
}

// TranspositionTable memoizes completed subtree searches keyed by position
// hash. It is a bounded, explicitly sized cache: eviction never affects
// correctness, only how much work is re-done.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	age     uint8

	probes uint64
	hits   uint64
}

// NewTranspositionTable allocates a table of roughly sizeMB megabytes,
// rounded down to a power of two entries for cheap indexing.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const entrySize = 16
	n := uint64(sizeMB) * 1024 * 1024 / entrySize
	n = roundDownPow2(n)
	if n == 0 {
		n = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, n),
		mask:    n - 1,
	}
}

func roundDownPow2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks the position up. The boolean is false for an empty slot or a
// slot owned by a different position.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	entry := tt.entries[hash&tt.mask]
	if entry.Key == hash && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Store writes a completed result. Replacement is depth-preferred within the
// current search generation and always-replace across generations: a shallow
// fresh entry beats a deep stale one, because stale entries stop earning
// their slot.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, bound Bound, best board.Move) {
	entry := &tt.entries[hash&tt.mask]
	if entry.Age == tt.age && depth < int(entry.Depth) {
		return
	}
	entry.Key = hash
	entry.Move = best
	entry.Score = int16(score)
	entry.Depth = int8(depth)
	entry.Bound = bound
	entry.Age = tt.age
}

// NewSearch starts a new replacement generation.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear empties the table and resets statistics.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.probes = 0
	tt.hits = 0
}

// Size returns the number of slots.
func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.entries))
}

// HitRate returns the probe hit rate in percent.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// HashFull estimates table occupancy in permille by sampling.
func (tt *TranspositionTable) HashFull() int {
	sample := 1000
	if uint64(sample) > tt.Size() {
		sample = int(tt.Size())
	}
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return used * 1000 / sample
}

// Mate scores are stored relative to the entry's node rather than the root,
// so a "mate in 3 from here" entry stays correct wherever the position
// reappears in the tree. scoreToTT rebases a root-relative score on store;
// scoreFromTT restores it on probe.

func scoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
