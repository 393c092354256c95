package collect

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/operators"
	"github.com/shardlite/shardlite/plan"
	"github.com/shardlite/shardlite/pool"
	"github.com/shardlite/shardlite/shard"
	"github.com/shardlite/shardlite/symbol"
	"github.com/shardlite/shardlite/types"
)

const (
	testNodeID = "test_node"
	testTable  = "test_table"
)

// truthExpression is a node-scoped reference yielding 42; it counts its
// invocations so tests can assert that no evaluation happened.
type truthExpression struct {
	calls atomic.Int64
}

var truthInfo = metadata.NewReferenceInfo(
	metadata.NewReferenceIdent(metadata.NewTableIdent("default", "collect"), "truth"),
	metadata.GranularityNode,
	types.TypeInteger,
)

func (e *truthExpression) Value() any {
	e.calls.Add(1)
	return int32(42)
}
func (e *truthExpression) Info() *metadata.ReferenceInfo { return truthInfo }
func (e *truthExpression) ChildImplementation(string) metadata.ReferenceImplementation {
	return nil
}

// twoTimes doubles its integer argument; unknown in, unknown out
type twoTimes struct{}

var twoTimesInfo = metadata.NewFunctionInfo(
	metadata.NewFunctionIdent("two_times", types.TypeInteger),
	types.TypeInteger,
)

func (f *twoTimes) Info() *metadata.FunctionInfo { return twoTimesInfo }
func (f *twoTimes) Evaluate(args ...metadata.Input) any {
	v, ok := args[0].Value().(int32)
	if !ok {
		return nil
	}
	return v * 2
}

type testEnv struct {
	truth     *truthExpression
	functions *metadata.Functions
	registry  *metadata.Registry
	shards    *shard.Manager
	wp        *pool.WorkerPool
	op        *LocalCollectOperation
}

func newTestEnv(t *testing.T, shardNums ...int) *testEnv {
	t.Helper()

	functions := metadata.NewFunctions()
	operators.RegisterAll(functions)
	functions.Register(&twoTimes{})

	truth := &truthExpression{}
	registry := metadata.NewRegistry(nil)
	registry.Register(truth)

	shards := shard.NewManager(t.TempDir())
	for _, num := range shardNums {
		_, err := shards.Open(shard.NewID(testTable, num))
		require.NoError(t, err)
	}
	t.Cleanup(func() { shards.CloseAll() })

	wp := pool.NewWorkerPool(4, 32)
	t.Cleanup(wp.Close)

	return &testEnv{
		truth:     truth,
		functions: functions,
		registry:  registry,
		shards:    shards,
		wp:        wp,
		op:        NewLocalCollectOperation(testNodeID, functions, registry, shards, wp),
	}
}

// gateExpression blocks inside Value until released, holding its evaluation
// context mid-flight.
type gateExpression struct {
	info    *metadata.ReferenceInfo
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateExpression(granularity metadata.RowGranularity) *gateExpression {
	return &gateExpression{
		info: metadata.NewReferenceInfo(
			metadata.NewReferenceIdent(metadata.NewTableIdent("default", "collect"), "gate"),
			granularity,
			types.TypeInteger,
		),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (e *gateExpression) Value() any {
	e.once.Do(func() { close(e.started) })
	<-e.release
	return int32(1)
}
func (e *gateExpression) Info() *metadata.ReferenceInfo { return e.info }
func (e *gateExpression) ChildImplementation(string) metadata.ReferenceImplementation {
	return nil
}

func (e *gateExpression) awaitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-e.started:
	case <-time.After(5 * time.Second):
		t.Fatal("evaluation never reached the gate")
	}
}

// countingResolver counts the lookups hitting the wrapped resolver
type countingResolver struct {
	base  metadata.ReferenceResolver
	calls atomic.Int64
}

func (r *countingResolver) GetImplementation(ident metadata.ReferenceIdent) metadata.ReferenceImplementation {
	r.calls.Add(1)
	return r.base.GetImplementation(ident)
}

// collect runs the fragment and waits for the matrix
func (e *testEnv) collect(t *testing.T, node *plan.CollectNode) ([][]any, error) {
	t.Helper()
	res, err := e.op.Collect(context.Background(), node)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return res.Wait(ctx)
}

func nodeCollectNode(name string) *plan.CollectNode {
	return plan.NewCollectNode(name, plan.NewTableRouting(testNodeID, testTable))
}

func shardCollectNode(name string, shardNums ...int) *plan.CollectNode {
	return plan.NewCollectNode(name, plan.NewShardRouting(testNodeID, testTable, shardNums...))
}

func truthRef() *symbol.Reference { return symbol.NewReference(truthInfo) }

func shardIDRef() *symbol.Reference {
	return symbol.NewReference(metadata.NewReferenceInfo(
		shard.IDIdent, metadata.GranularityShard, types.TypeInteger))
}

func eqInt(left, right symbol.Symbol) *symbol.Function {
	info := metadata.NewFunctionInfo(operators.EqIdent(types.TypeInteger), types.TypeBoolean)
	return symbol.NewFunction(info, left, right)
}

func andOf(left, right symbol.Symbol) *symbol.Function {
	return symbol.NewFunction(operators.AndInfo, left, right)
}
