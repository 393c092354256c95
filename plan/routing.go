// Package plan defines the plan fragment the collect engine executes: the
// routing table plus filter, outputs and the sort, offset and limit settings.
package plan

import (
	"sort"
)

// Routing maps node ids to the tables and shards each node must scan for a
// query. A table entry with no shards marks node-granularity participation.
type Routing struct {
	locations map[string]map[string][]int
}

// NewRouting creates a Routing from a nodeID -> table -> shard ids mapping.
// Shard id lists are deduplicated and sorted; order carries no meaning.
func NewRouting(locations map[string]map[string][]int) *Routing {
	normalized := make(map[string]map[string][]int, len(locations))
	for nodeID, tables := range locations {
		nt := make(map[string][]int, len(tables))
		for table, shards := range tables {
			nt[table] = normalizeShards(shards)
		}
		normalized[nodeID] = nt
	}
	return &Routing{locations: normalized}
}

// NewNodeRouting creates a Routing where the given node participates but
// has nothing to scan: no tables at all. Collecting over it succeeds with
// an empty result.
func NewNodeRouting(nodeID string) *Routing {
	return NewRouting(map[string]map[string][]int{nodeID: {}})
}

// NewTableRouting creates a Routing where the given node holds the given
// tables at node granularity: each table entry carries an empty shard set.
func NewTableRouting(nodeID string, tables ...string) *Routing {
	nt := make(map[string][]int, len(tables))
	for _, table := range tables {
		nt[table] = nil
	}
	return NewRouting(map[string]map[string][]int{nodeID: nt})
}

// NewShardRouting creates a Routing where the given node scans the given
// shards of one table.
func NewShardRouting(nodeID, table string, shards ...int) *Routing {
	return NewRouting(map[string]map[string][]int{nodeID: {table: shards}})
}

// HasNode reports whether the routing contains an entry for the node
func (r *Routing) HasNode(nodeID string) bool {
	_, ok := r.locations[nodeID]
	return ok
}

// Node returns the table -> shard ids mapping for one node, or nil
func (r *Routing) Node(nodeID string) map[string][]int {
	return r.locations[nodeID]
}

// Nodes returns the routed node ids in a stable order
func (r *Routing) Nodes() []string {
	nodes := make([]string, 0, len(r.locations))
	for nodeID := range r.locations {
		nodes = append(nodes, nodeID)
	}
	sort.Strings(nodes)
	return nodes
}

func normalizeShards(shards []int) []int {
	seen := make(map[int]struct{}, len(shards))
	out := make([]int, 0, len(shards))
	for _, s := range shards {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
