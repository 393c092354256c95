package shard

import (
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
)

// Store is the pebble-backed document store of one shard. It keeps a live
// document count so the sys.shards num_docs reference never has to scan.
type Store struct {
	db       *pebble.DB
	path     string
	mu       sync.RWMutex
	closed   bool
	docCount atomic.Int64
}

// OpenStore opens (or creates) the store for one shard below dataDir
func OpenStore(dataDir string, id ID) (*Store, error) {
	path := filepath.Join(dataDir, id.Table, strconv.Itoa(id.Num))
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open shard store %s: %w", id, err)
	}

	s := &Store{db: db, path: path}
	if err := s.initDocCount(); err != nil {
		db.Close()
		return nil, fmt.Errorf("count shard documents %s: %w", id, err)
	}
	return s, nil
}

func (s *Store) initDocCount() error {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	var count int64
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	s.docCount.Store(count)
	return iter.Error()
}

// Put stores a document under its id
func (s *Store) Put(docID string, body []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	_, closer, err := s.db.Get([]byte(docID))
	exists := err == nil
	if exists {
		closer.Close()
	} else if err != pebble.ErrNotFound {
		return err
	}

	if err := s.db.Set([]byte(docID), body, pebble.Sync); err != nil {
		return err
	}
	if !exists {
		s.docCount.Add(1)
	}
	return nil
}

// Get returns a copy of the document body, or ErrDocNotFound
func (s *Store) Get(docID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	value, closer, err := s.db.Get([]byte(docID))
	if err == pebble.ErrNotFound {
		return nil, ErrDocNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// DocCount returns the number of stored documents
func (s *Store) DocCount() int64 {
	return s.docCount.Load()
}

// SizeBytes returns the store's on-disk size estimate
func (s *Store) SizeBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0
	}
	return int64(s.db.Metrics().DiskSpaceUsage())
}

// Close closes the underlying pebble database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
