// Package sys provides the node-scoped builtin references registered in the
// process-wide resolver at startup: the sys.nodes analogue of the per-shard
// sys.shards expressions.
package sys

import (
	"runtime"

	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// SysNodes is the table the builtin node references live under
var SysNodes = metadata.NewTableIdent("sys", "nodes")

// Builtin node reference idents
var (
	IDIdent        = metadata.NewReferenceIdent(SysNodes, "id")
	NameIdent      = metadata.NewReferenceIdent(SysNodes, "name")
	HeapUsedIdent  = metadata.NewReferenceIdent(SysNodes, "heap_used")
	GoroutineIdent = metadata.NewReferenceIdent(SysNodes, "goroutines")
)

type nodeExpression struct {
	info  *metadata.ReferenceInfo
	value func() any
}

func (e *nodeExpression) Value() any                    { return e.value() }
func (e *nodeExpression) Info() *metadata.ReferenceInfo { return e.info }
func (e *nodeExpression) ChildImplementation(string) metadata.ReferenceImplementation {
	return nil
}

func nodeInfo(ident metadata.ReferenceIdent, t types.DataType) *metadata.ReferenceInfo {
	return metadata.NewReferenceInfo(ident, metadata.GranularityNode, t)
}

// RegisterNodeExpressions adds the builtin sys.nodes references for the
// local node to the process-wide registry.
func RegisterNodeExpressions(registry *metadata.Registry, nodeID, nodeName string) {
	exprs := []*nodeExpression{
		{
			info:  nodeInfo(IDIdent, types.TypeString),
			value: func() any { return nodeID },
		},
		{
			info:  nodeInfo(NameIdent, types.TypeString),
			value: func() any { return nodeName },
		},
		{
			info: nodeInfo(HeapUsedIdent, types.TypeLong),
			value: func() any {
				var ms runtime.MemStats
				runtime.ReadMemStats(&ms)
				return int64(ms.HeapAlloc)
			},
		},
		{
			info:  nodeInfo(GoroutineIdent, types.TypeLong),
			value: func() any { return int64(runtime.NumGoroutine()) },
		},
	}
	for _, e := range exprs {
		registry.Register(e)
	}
}
