package collect

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/plan"
	"github.com/shardlite/shardlite/shard"
)

// evalContext is one independent unit of evaluation: the node itself, or a
// single shard. Each context binds its own inputs and contributes at most
// one row; nothing is shared with sibling contexts.
type evalContext struct {
	name   string
	binder binder
	shard  *shard.Shard // nil for the node context
}

func newNodeContext(functions *metadata.Functions, nodeResolver metadata.ReferenceResolver) *evalContext {
	return &evalContext{
		name: "node",
		binder: binder{
			functions: functions,
			resolvers: []metadata.ReferenceResolver{nodeResolver},
		},
	}
}

func newShardContext(functions *metadata.Functions, nodeResolver metadata.ReferenceResolver, s *shard.Shard) *evalContext {
	return &evalContext{
		name:  s.ID().String(),
		shard: s,
		binder: binder{
			functions: functions,
			resolvers: []metadata.ReferenceResolver{s.Resolver(), nodeResolver},
		},
	}
}

// collect binds and evaluates the fragment within this context. It returns
// the produced row and whether the filter admitted it. A shard that closed
// while we were reading invalidates whatever was produced.
func (c *evalContext) collect(node *plan.CollectNode) ([]any, bool, error) {
	if err := c.checkShard(); err != nil {
		return nil, false, err
	}

	var filter metadata.Input
	if node.WhereClause != nil {
		bound, err := c.binder.bind(node.WhereClause)
		if err != nil {
			return nil, false, err
		}
		filter = bound
	}
	outputs, err := c.binder.bindAll(node.Outputs)
	if err != nil {
		return nil, false, err
	}

	if filter != nil {
		// only strict true admits; false and unknown both exclude
		if pass, ok := filter.Value().(bool); !ok || !pass {
			return nil, false, c.checkShard()
		}
	}

	row := make([]any, len(outputs))
	for i, input := range outputs {
		row[i] = input.Value()
	}

	if err := c.checkShard(); err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func (c *evalContext) checkShard() error {
	if c.shard != nil && c.shard.Closed() {
		return NewShardUnavailable(c.shard.ID(), nil)
	}
	return nil
}
