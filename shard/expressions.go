package shard

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// SysShards is the table the builtin shard references live under
var SysShards = metadata.NewTableIdent("sys", "shards")

// Builtin shard reference idents
var (
	IDIdent        = metadata.NewReferenceIdent(SysShards, "id")
	TableNameIdent = metadata.NewReferenceIdent(SysShards, "table_name")
	NumDocsIdent   = metadata.NewReferenceIdent(SysShards, "num_docs")
	SizeIdent      = metadata.NewReferenceIdent(SysShards, "size")
	StateIdent     = metadata.NewReferenceIdent(SysShards, "state")
)

// Shard states reported by the state reference
const (
	StateStarted = "STARTED"
	StateClosed  = "CLOSED"
)

// expression is a shard-scoped reference implementation reading one
// attribute of its shard. Every attribute is a leaf, so child lookups
// always miss.
type expression struct {
	info  *metadata.ReferenceInfo
	value func(s *Shard) any
	shard *Shard
}

func (e *expression) Value() any                    { return e.value(e.shard) }
func (e *expression) Info() *metadata.ReferenceInfo { return e.info }
func (e *expression) ChildImplementation(string) metadata.ReferenceImplementation {
	return nil
}

func shardInfo(ident metadata.ReferenceIdent, t types.DataType) *metadata.ReferenceInfo {
	return metadata.NewReferenceInfo(ident, metadata.GranularityShard, t)
}

// registerShardExpressions populates a fresh shard's registry with the
// builtin sys.shards references.
func registerShardExpressions(s *Shard) {
	exprs := []*expression{
		{
			info:  shardInfo(IDIdent, types.TypeInteger),
			value: func(s *Shard) any { return int32(s.id.Num) },
		},
		{
			info:  shardInfo(TableNameIdent, types.TypeString),
			value: func(s *Shard) any { return s.id.Table },
		},
		{
			info:  shardInfo(NumDocsIdent, types.TypeLong),
			value: func(s *Shard) any { return s.store.DocCount() },
		},
		{
			info:  shardInfo(SizeIdent, types.TypeLong),
			value: func(s *Shard) any { return s.store.SizeBytes() },
		},
		{
			info: shardInfo(StateIdent, types.TypeString),
			value: func(s *Shard) any {
				if s.Closed() {
					return StateClosed
				}
				return StateStarted
			},
		},
	}
	for _, e := range exprs {
		e.shard = s
		s.registry.Register(e)
	}
}
