// Package watchlist persists the ordered list of watched symbols.
//
// The list lives in a single bbolt key so every mutation is a full
// read-modify-write of the list inside one transaction. An in-memory copy
// backs List and Contains so reads never touch the database.
package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketName = []byte("watchlist")
	symbolsKey = []byte("symbols")
)

// Store is a durable, ordered watchlist. Duplicates are allowed and order
// is preserved across restarts. Safe for concurrent use.
type Store struct {
	db *bolt.DB

	mu      sync.RWMutex
	symbols []string
}

// Open opens or creates the watchlist database at path and loads the
// current list into memory.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("watchlist store: create dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("watchlist store: open: %w", err)
	}

	s := &Store{db: db}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		symbols, err := decodeSymbols(b.Get(symbolsKey))
		if err != nil {
			return err
		}
		s.symbols = symbols
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("watchlist store: load: %w", err)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("watchlist store: close: %w", err)
	}
	return nil
}

// List returns the symbols in insertion order, duplicates included.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Contains reports whether symbol appears at least once. Matching is exact.
func (s *Store) Contains(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, got := range s.symbols {
		if got == symbol {
			return true
		}
	}
	return false
}

// Len returns the number of entries, duplicates included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.symbols)
}

// Add appends symbol to the end of the list. Adding a symbol that is
// already present appends another occurrence.
func (s *Store) Add(symbol string) error {
	return s.rewrite("add", func(symbols []string) []string {
		return append(symbols, symbol)
	})
}

// Remove deletes every occurrence of symbol. Removing an absent symbol
// is a no-op.
func (s *Store) Remove(symbol string) error {
	return s.rewrite("remove", func(symbols []string) []string {
		kept := symbols[:0]
		for _, got := range symbols {
			if got != symbol {
				kept = append(kept, got)
			}
		}
		return kept
	})
}

// rewrite applies fn to the persisted list inside a single transaction and
// refreshes the in-memory copy from the result.
func (s *Store) rewrite(op string, fn func([]string) []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next []string
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return fmt.Errorf("bucket %q missing", bucketName)
		}
		symbols, err := decodeSymbols(b.Get(symbolsKey))
		if err != nil {
			return err
		}
		symbols = fn(symbols)
		raw, err := json.Marshal(symbols)
		if err != nil {
			return err
		}
		if err := b.Put(symbolsKey, raw); err != nil {
			return err
		}
		next = symbols
		return nil
	})
	if err != nil {
		return fmt.Errorf("watchlist store: %s: %w", op, err)
	}
	s.symbols = next
	return nil
}

func decodeSymbols(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var symbols []string
	if err := json.Unmarshal(raw, &symbols); err != nil {
		return nil, fmt.Errorf("decode symbols: %w", err)
	}
	return symbols, nil
}
