// Package collect implements the local execution core of the query engine:
// given an already-planned collect node, it evaluates the fragment against
// the values available on this node, once at node scope or once per
// routed shard, and returns the filtered, sorted and truncated row matrix
// asynchronously.
package collect

import (
	"context"
	"sync"

	"github.com/shardlite/shardlite/logger"
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/plan"
	"github.com/shardlite/shardlite/pool"
	"github.com/shardlite/shardlite/shard"
	"github.com/shardlite/shardlite/symbol"
)

// LocalCollectOperation evaluates collect nodes on the local cluster member
type LocalCollectOperation struct {
	nodeID       string
	functions    *metadata.Functions
	nodeResolver metadata.ReferenceResolver
	shards       *shard.Manager
	pool         *pool.WorkerPool
}

// NewLocalCollectOperation wires the operation with the registries and the
// shared worker pool it reads from. Nothing here is mutated by a collect
// call.
func NewLocalCollectOperation(
	nodeID string,
	functions *metadata.Functions,
	nodeResolver metadata.ReferenceResolver,
	shards *shard.Manager,
	workerPool *pool.WorkerPool,
) *LocalCollectOperation {
	return &LocalCollectOperation{
		nodeID:       nodeID,
		functions:    functions,
		nodeResolver: nodeResolver,
		shards:       shards,
		pool:         workerPool,
	}
}

// Collect starts evaluating the fragment and returns a pending result
// handle. Structural failures (an invalid fragment, routing that does not
// contain this node, a routed shard that is not open) surface
// synchronously before any task is scheduled; everything later settles
// through the handle.
func (op *LocalCollectOperation) Collect(ctx context.Context, node *plan.CollectNode) (*Result, error) {
	if err := node.Validate(); err != nil {
		return nil, NewInvalidPlan(err)
	}
	if !node.Routing.HasNode(op.nodeID) {
		return nil, NewRoutingMismatch(op.nodeID, node.Name)
	}

	tables := node.Routing.Node(op.nodeID)
	if len(tables) == 0 {
		// routed for node participation without tables: nothing to scan
		return completedResult(nil), nil
	}
	if node.Limit == 0 {
		// nothing can survive the limit, skip building any context
		return completedResult(nil), nil
	}

	contexts, err := op.buildContexts(node, tables)
	if err != nil {
		return nil, err
	}

	result := newResult()
	ctx = logger.WithContextValue(ctx, logger.QueryIDKey, result.id.String())
	ctx = logger.WithContextValue(ctx, logger.NodeIDKey, op.nodeID)
	logger.DebugContext(ctx, "collect started", "plan", node.Name, "contexts", len(contexts))

	op.dispatch(ctx, node, contexts, result)
	return result, nil
}

// buildContexts decides the evaluation scope. Without any shard-granularity
// reference the whole call runs once at node scope; otherwise one context
// per routed shard, with node references still resolvable inside each.
func (op *LocalCollectOperation) buildContexts(node *plan.CollectNode, tables map[string][]int) ([]*evalContext, error) {
	symbols := make([]symbol.Symbol, 0, len(node.Outputs)+1)
	symbols = append(symbols, node.Outputs...)
	if node.WhereClause != nil {
		symbols = append(symbols, node.WhereClause)
	}

	// node references resolve once for the whole call
	nodeResolver := newCallResolver(op.nodeResolver)

	if !symbol.ContainsGranularity(metadata.GranularityShard, symbols...) {
		return []*evalContext{newNodeContext(op.functions, nodeResolver)}, nil
	}

	var contexts []*evalContext
	for table, shardNums := range tables {
		for _, num := range shardNums {
			id := shard.NewID(table, num)
			s, ok := op.shards.Get(id)
			if !ok {
				return nil, NewShardUnavailable(id, nil)
			}
			contexts = append(contexts, newShardContext(op.functions, nodeResolver, s))
		}
	}
	return contexts, nil
}

// dispatch hands the contexts to the shared pool and joins them, all from a
// separate goroutine: Submit blocks while the pool is saturated, and the
// caller must get its handle back regardless. The first failure cancels
// contexts that have not started; running ones finish on their own and
// their rows are discarded with the call.
func (op *LocalCollectOperation) dispatch(ctx context.Context, node *plan.CollectNode, contexts []*evalContext, result *Result) {
	callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	var (
		mu       sync.Mutex
		rows     [][]any
		firstErr error
		wg       sync.WaitGroup
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	go func() {
		for _, ec := range contexts {
			ec := ec
			wg.Add(1)
			task := func() {
				defer wg.Done()
				if callCtx.Err() != nil {
					return // a sibling already failed, skip
				}
				row, ok, err := ec.collect(node)
				if err != nil {
					logger.DebugContext(ctx, "context failed", "context", ec.name, "error", err.Error())
					setErr(err)
					return
				}
				if ok {
					mu.Lock()
					rows = append(rows, row)
					mu.Unlock()
				}
			}
			if err := op.pool.Submit(task); err != nil {
				wg.Done()
				setErr(err)
				break
			}
		}

		wg.Wait()
		cancel()
		if firstErr != nil {
			logger.DebugContext(ctx, "collect failed", "plan", node.Name, "error", firstErr.Error())
			result.fail(firstErr)
			return
		}
		final := applyPipeline(rows, node)
		logger.DebugContext(ctx, "collect finished", "plan", node.Name, "rows", len(final))
		result.complete(final)
	}()
}
