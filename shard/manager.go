package shard

import (
	"sort"
	"sync"

	"github.com/shardlite/shardlite/logger"
)

// Manager is the shard lifecycle manager. The storage layer opens shards as
// they are assigned to the node and closes them on relocation; the collect
// engine only ever reads.
type Manager struct {
	dataDir string
	mu      sync.RWMutex
	shards  map[ID]*Shard
}

// NewManager creates a Manager storing shard data below dataDir
func NewManager(dataDir string) *Manager {
	return &Manager{dataDir: dataDir, shards: make(map[ID]*Shard)}
}

// Open creates the shard's store and registry and makes it visible to
// collect calls.
func (m *Manager) Open(id ID) (*Shard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.shards[id]; exists {
		return nil, ErrAlreadyOpen
	}

	store, err := OpenStore(m.dataDir, id)
	if err != nil {
		return nil, err
	}
	s := newShard(id, store)
	m.shards[id] = s
	logger.Info("shard opened", "shard", id.String())
	return s, nil
}

// Close marks the shard closed, removes it from the routing surface and
// releases its store. In-flight evaluation on the shard fails transiently.
func (m *Manager) Close(id ID) error {
	m.mu.Lock()
	s, exists := m.shards[id]
	delete(m.shards, id)
	m.mu.Unlock()

	if !exists {
		return ErrNotOpen
	}
	logger.Info("shard closed", "shard", id.String())
	return s.close()
}

// Get returns the open shard, if any
func (m *Manager) Get(id ID) (*Shard, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shards[id]
	return s, ok
}

// IDs returns the open shard ids in a stable order
func (m *Manager) IDs() []ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]ID, 0, len(m.shards))
	for id := range m.shards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Table != ids[j].Table {
			return ids[i].Table < ids[j].Table
		}
		return ids[i].Num < ids[j].Num
	})
	return ids
}

// CloseAll closes every open shard, returning the first error
func (m *Manager) CloseAll() error {
	var first error
	for _, id := range m.IDs() {
		if err := m.Close(id); err != nil && first == nil {
			first = err
		}
	}
	return first
}
