// Package shard manages the per-shard side of reference resolution: each
// open shard owns a small pebble-backed document store and a registry of
// shard-scoped reference implementations created at open time and torn down
// at close time.
package shard

import (
	"fmt"
	"sync/atomic"

	"github.com/shardlite/shardlite/metadata"
)

// ID identifies one shard of a table
type ID struct {
	Table string
	Num   int
}

// NewID creates a shard ID
func NewID(table string, num int) ID {
	return ID{Table: table, Num: num}
}

func (id ID) String() string {
	return fmt.Sprintf("%s[%d]", id.Table, id.Num)
}

// Shard is one open shard: its store plus the registry serving
// SHARD-granularity references for it. All collect calls touching the shard
// share the same instance.
type Shard struct {
	id       ID
	store    *Store
	registry *metadata.Registry
	closed   atomic.Bool
}

func newShard(id ID, store *Store) *Shard {
	s := &Shard{id: id, store: store}
	s.registry = metadata.NewRegistry(nil)
	registerShardExpressions(s)
	return s
}

// ID returns the shard's identity
func (s *Shard) ID() ID { return s.id }

// Store returns the shard's document store
func (s *Shard) Store() *Store { return s.store }

// Resolver returns the shard-scoped reference registry
func (s *Shard) Resolver() metadata.ReferenceResolver { return s.registry }

// Closed reports whether the shard has been closed. Evaluation contexts
// check this around reads so a concurrent close surfaces as a transient
// error instead of a stale row.
func (s *Shard) Closed() bool { return s.closed.Load() }

func (s *Shard) close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.store.Close()
}
