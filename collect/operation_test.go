package collect

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/plan"
	"github.com/shardlite/shardlite/pool"
	"github.com/shardlite/shardlite/shard"
	"github.com/shardlite/shardlite/symbol"
	"github.com/shardlite/shardlite/types"
)

func TestCollectNodeReference(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("collect")
	node.Outputs = []symbol.Symbol{truthRef()}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(42), rows[0][0])
}

func TestCollectWrongRouting(t *testing.T) {
	env := newTestEnv(t)

	node := plan.NewCollectNode("wrong", plan.NewShardRouting("bla", "my_index", 1))
	node.Outputs = []symbol.Symbol{truthRef()}

	res, err := env.op.Collect(context.Background(), node)
	require.Error(t, err)
	assert.True(t, IsRoutingMismatch(err))
	assert.False(t, IsRetryable(err))
	assert.Nil(t, res, "routing mismatch surfaces before any task is scheduled")
	assert.Equal(t, int64(0), env.truth.calls.Load())
}

func TestCollectNoTables(t *testing.T) {
	env := newTestEnv(t)

	node := plan.NewCollectNode("nothing", plan.NewNodeRouting(testNodeID))
	node.Outputs = []symbol.Symbol{truthRef()}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(0), env.truth.calls.Load())
}

func TestCollectUnknownReference(t *testing.T) {
	env := newTestEnv(t)

	unknown := symbol.NewReference(metadata.NewReferenceInfo(
		metadata.NewReferenceIdent(metadata.NewTableIdent("", ""), ""),
		metadata.GranularityNode,
		types.TypeBoolean,
	))
	node := nodeCollectNode("unknown")
	node.Outputs = []symbol.Symbol{unknown}

	rows, err := env.collect(t, node)
	require.Error(t, err)
	assert.True(t, IsUnknownReference(err))
	assert.Nil(t, rows)
}

func TestCollectFunction(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("function")
	node.Outputs = []symbol.Symbol{
		symbol.NewFunction(twoTimesInfo, truthRef()),
		truthRef(),
	}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 2)
	assert.Equal(t, int32(84), rows[0][0])
	assert.Equal(t, int32(42), rows[0][1])
}

func TestCollectUnknownFunction(t *testing.T) {
	env := newTestEnv(t)

	unknownInfo := metadata.NewFunctionInfo(
		metadata.NewFunctionIdent("no_such_function"),
		types.TypeBoolean,
	)
	node := nodeCollectNode("unknownFunction")
	node.Outputs = []symbol.Symbol{symbol.NewFunction(unknownInfo)}

	_, err := env.collect(t, node)
	require.Error(t, err)
	assert.True(t, IsUnknownFunction(err))
}

func TestCollectFunctionArityMismatch(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("shortArity")
	node.Outputs = []symbol.Symbol{symbol.NewFunction(twoTimesInfo)} // no args

	_, err := env.collect(t, node)
	require.Error(t, err)
	assert.True(t, IsArityMismatch(err))
}

func TestCollectLiterals(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("literals")
	node.Outputs = []symbol.Symbol{
		symbol.StringLiteral("foobar"),
		symbol.BooleanLiteral(true),
		symbol.IntegerLiteral(1),
		symbol.DoubleLiteral(4.2),
	}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"foobar", true, int32(1), 4.2}, rows[0])
}

func TestCollectWithFalseFilter(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("whereClause")
	node.WhereClause = andOf(symbol.BooleanLiteral(false), symbol.BooleanLiteral(false))
	node.Outputs = []symbol.Symbol{truthRef()}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCollectWithTrueFilter(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("whereClause")
	node.WhereClause = andOf(symbol.BooleanLiteral(true), symbol.BooleanLiteral(true))
	node.Outputs = []symbol.Symbol{truthRef()}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(42), rows[0][0])
}

func TestCollectWithNullFilter(t *testing.T) {
	env := newTestEnv(t)

	// null = null is unknown under three-valued logic, so nothing is admitted
	node := nodeCollectNode("whereClause")
	node.WhereClause = eqInt(symbol.NullValue, symbol.NullValue)
	node.Outputs = []symbol.Symbol{truthRef()}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCollectShardExpressions(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef()}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.ElementsMatch(t, []any{int32(0), int32(1)}, []any{rows[0][0], rows[1][0]})
}

func TestCollectShardExpressionsWhereShardIDIs0(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.WhereClause = eqInt(shardIDRef(), symbol.IntegerLiteral(0))
	node.Outputs = []symbol.Symbol{shardIDRef()}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(0), rows[0][0])
}

func TestCollectShardExpressionsLiteralsAndNodeExpressions(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef(), symbol.BooleanLiteral(true), truthRef()}
	node.OrderBy = []int{0}
	node.Reverse = []bool{false}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 3)

	// node-granularity output replicates identically across shard rows
	assert.Equal(t, []any{int32(0), true, int32(42)}, rows[0])
	assert.Equal(t, []any{int32(1), true, int32(42)}, rows[1])
}

func TestCollectShardExpressionsLimit1(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef(), truthRef()}
	node.Limit = 1

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, []any{int32(0), int32(1)}, rows[0][0])
	assert.Equal(t, int32(42), rows[0][1])
}

func TestCollectShardExpressionsNoLimitOffset2(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef(), truthRef()}
	node.Offset = 2

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCollectShardExpressionsLimit0(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef(), truthRef()}
	node.Limit = 0

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(0), env.truth.calls.Load(), "limit 0 must not evaluate any context")
}

func TestCollectNodeExpressionsLimit0(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("nodeCollect")
	node.Outputs = []symbol.Symbol{truthRef()}
	node.Limit = 0

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, int64(0), env.truth.calls.Load())
}

func TestCollectNodeExpressionsOffset1(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("nodeCollect")
	node.Outputs = []symbol.Symbol{truthRef()}
	node.Offset = 1

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCollectShardExpressionsOrderByAsc(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef(), truthRef()}
	node.OrderBy = []int{0}
	node.Reverse = []bool{false}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(0), rows[0][0])
	assert.Equal(t, int32(1), rows[1][0])
}

func TestCollectShardExpressionsOrderByDesc(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef(), truthRef()}
	node.OrderBy = []int{0}
	node.Reverse = []bool{true}

	rows, err := env.collect(t, node)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int32(1), rows[0][0])
	assert.Equal(t, int32(0), rows[1][0])
}

func TestCollectClosedShardIsTransient(t *testing.T) {
	env := newTestEnv(t, 0, 1)
	require.NoError(t, env.shards.Close(shard.NewID(testTable, 1)))

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef()}

	_, err := env.op.Collect(context.Background(), node)
	require.Error(t, err)
	assert.True(t, IsShardUnavailable(err))
	assert.True(t, IsRetryable(err))
}

func TestCollectInvalidPlan(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("invalid")
	node.Outputs = []symbol.Symbol{truthRef()}
	node.OrderBy = []int{3}
	node.Reverse = []bool{false}

	_, err := env.op.Collect(context.Background(), node)
	require.Error(t, err)
	assert.True(t, isCode(err, ErrCodeInvalidPlan))
}

func TestCollectReturnsHandleWhilePoolSaturated(t *testing.T) {
	gate := newGateExpression(metadata.GranularityNode)
	registry := metadata.NewRegistry(nil)
	registry.Register(gate)

	shards := shard.NewManager(t.TempDir())
	wp := pool.NewWorkerPool(1, 0)
	op := NewLocalCollectOperation(testNodeID, metadata.NewFunctions(), registry, shards, wp)

	var releaseOnce sync.Once
	releaseGate := func() { releaseOnce.Do(func() { close(gate.release) }) }
	t.Cleanup(wp.Close)
	t.Cleanup(releaseGate)

	busy := nodeCollectNode("busy")
	busy.Outputs = []symbol.Symbol{symbol.NewReference(gate.info)}

	busyRes, err := op.Collect(context.Background(), busy)
	require.NoError(t, err)
	gate.awaitStarted(t)

	// the only worker is parked in the gate and the queue holds nothing;
	// a second call must still hand its result back immediately
	literals := nodeCollectNode("literals")
	literals.Outputs = []symbol.Symbol{symbol.IntegerLiteral(7)}

	handles := make(chan *Result, 1)
	go func() {
		res, err := op.Collect(context.Background(), literals)
		if err != nil {
			t.Error(err)
			close(handles)
			return
		}
		handles <- res
	}()

	var res *Result
	select {
	case res = <-handles:
		require.NotNil(t, res)
	case <-time.After(2 * time.Second):
		t.Fatal("second collect call blocked while the shared pool was saturated")
	}

	releaseGate()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := res.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int32(7)}}, rows)

	busyRows, err := busyRes.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int32(1)}}, busyRows)
}

func TestCollectShardClosedMidEvaluation(t *testing.T) {
	env := newTestEnv(t, 0)

	// shard-granularity gate registered node-wide: the resolver chain falls
	// through to it, so the call still runs one context per shard
	gate := newGateExpression(metadata.GranularityShard)
	env.registry.Register(gate)

	node := shardCollectNode("shardCollect", 0)
	node.Outputs = []symbol.Symbol{symbol.NewReference(gate.info)}

	res, err := env.op.Collect(context.Background(), node)
	require.NoError(t, err)
	gate.awaitStarted(t)

	require.NoError(t, env.shards.Close(shard.NewID(testTable, 0)))
	close(gate.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := res.Wait(ctx)
	require.Error(t, err)
	assert.True(t, IsShardUnavailable(err))
	assert.True(t, IsRetryable(err))
	assert.Nil(t, rows, "a row read from a closed shard must not be delivered")
}

func TestCollectNodeReferenceResolvedOncePerCall(t *testing.T) {
	env := newTestEnv(t, 0, 1)

	counting := &countingResolver{base: env.registry}
	op := NewLocalCollectOperation(testNodeID, env.functions, counting, env.shards, env.wp)

	node := shardCollectNode("shardCollect", 0, 1)
	node.Outputs = []symbol.Symbol{shardIDRef(), truthRef()}

	res, err := op.Collect(context.Background(), node)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := res.Wait(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), counting.calls.Load(),
		"node reference looked up once across both shard contexts")
}

func TestResultHandle(t *testing.T) {
	env := newTestEnv(t)

	node := nodeCollectNode("collect")
	node.Outputs = []symbol.Symbol{truthRef()}

	res, err := env.op.Collect(context.Background(), node)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ID())

	<-res.Done()
	rows, err := res.Wait(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
