package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key prefixes.
const (
	prefixCache   = "cache:"
	prefixHistory = "history:"
)

// AnalysisRecord is one completed engine analysis.
type AnalysisRecord struct {
	ID        string        `json:"id"`
	FEN       string        `json:"fen"`
	Depth     int           `json:"depth"`
	BestMove  string        `json:"best_move"`
	Score     int           `json:"score"`
	Nodes     uint64        `json:"nodes"`
	Elapsed   time.Duration `json:"elapsed"`
	CreatedAt time.Time     `json:"created_at"`
}

// Storage wraps badger for persistent analysis results.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &Storage{db: db}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return Open(dbDir)
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// cacheKey derives the cache key for a position analyzed to a depth. The
// FEN's half-move clock and move number do not change the search result, so
// they are left in the key deliberately simple: a miss on a clock-shifted
// FEN only costs a re-search.
func cacheKey(fen string, depth int) []byte {
	h := xxhash.New()
	h.WriteString(fen)
	var d [8]byte
	binary.BigEndian.PutUint64(d[:], uint64(depth))
	h.Write(d[:])

	key := make([]byte, len(prefixCache)+8)
	copy(key, prefixCache)
	binary.BigEndian.PutUint64(key[len(prefixCache):], h.Sum64())
	return key
}

// SaveAnalysis stores the record in the cache and appends it to the history
// log. A zero ID is filled in.
func (s *Storage) SaveAnalysis(rec *AnalysisRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(cacheKey(rec.FEN, rec.Depth), data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixHistory+rec.ID), data)
	})
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// LookupAnalysis returns the cached result for a position and depth, if any.
func (s *Storage) LookupAnalysis(fen string, depth int) (*AnalysisRecord, bool, error) {
	var rec AnalysisRecord
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(fen, depth))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &rec); err != nil {
				return err
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("lookup analysis: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	// The cache key is a hash; reject the entry if the FEN differs.
	if rec.FEN != fen || rec.Depth != depth {
		return nil, false, nil
	}
	return &rec, true, nil
}

// History returns up to limit analysis records, newest first. A limit of 0
// returns everything.
func (s *Storage) History(limit int) ([]AnalysisRecord, error) {
	var records []AnalysisRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixHistory)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec AnalysisRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
