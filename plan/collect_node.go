package plan

import (
	"fmt"

	"github.com/shardlite/shardlite/symbol"
)

const (
	// NoLimit marks an unlimited result
	NoLimit = -1
	// NoOffset is the default offset
	NoOffset = 0
)

// CollectNode is the plan fragment handed to the local collect engine. It
// is built once by the planner and never mutated afterwards; concurrent
// evaluation contexts share it read-only.
type CollectNode struct {
	Name        string
	Routing     *Routing
	WhereClause symbol.Symbol
	Outputs     []symbol.Symbol
	Limit       int
	Offset      int

	// OrderBy holds positions into Outputs; Reverse holds the matching
	// descending flags. Both are empty when no ordering is requested.
	OrderBy []int
	Reverse []bool
}

// NewCollectNode creates an unordered, unlimited CollectNode
func NewCollectNode(name string, routing *Routing) *CollectNode {
	return &CollectNode{
		Name:    name,
		Routing: routing,
		Limit:   NoLimit,
		Offset:  NoOffset,
	}
}

// IsLimited reports whether a limit applies
func (n *CollectNode) IsLimited() bool { return n.Limit != NoLimit }

// IsOrdered reports whether order-by positions are present
func (n *CollectNode) IsOrdered() bool { return len(n.OrderBy) > 0 }

// Validate checks the fragment's structural invariants
func (n *CollectNode) Validate() error {
	if n.Routing == nil {
		return fmt.Errorf("collect node %q has no routing", n.Name)
	}
	if n.Limit < NoLimit {
		return fmt.Errorf("collect node %q has negative limit %d", n.Name, n.Limit)
	}
	if n.Offset < 0 {
		return fmt.Errorf("collect node %q has negative offset %d", n.Name, n.Offset)
	}
	if len(n.OrderBy) != len(n.Reverse) {
		return fmt.Errorf("collect node %q has %d order-by positions but %d direction flags",
			n.Name, len(n.OrderBy), len(n.Reverse))
	}
	for _, pos := range n.OrderBy {
		if pos < 0 || pos >= len(n.Outputs) {
			return fmt.Errorf("collect node %q order-by position %d out of range, %d outputs",
				n.Name, pos, len(n.Outputs))
		}
	}
	return nil
}
