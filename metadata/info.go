package metadata

import (
	"github.com/shardlite/shardlite/types"
)

// RowGranularity is the scope at which a reference's value is determined
type RowGranularity int

const (
	// GranularityNode means one value for the whole node per collect call
	GranularityNode RowGranularity = iota
	// GranularityShard means one value per shard context
	GranularityShard
)

func (g RowGranularity) String() string {
	switch g {
	case GranularityNode:
		return "NODE"
	case GranularityShard:
		return "SHARD"
	default:
		return "UNKNOWN"
	}
}

// ReferenceInfo describes a resolvable column reference
type ReferenceInfo struct {
	Ident       ReferenceIdent
	Granularity RowGranularity
	Type        types.DataType
}

// NewReferenceInfo creates a ReferenceInfo
func NewReferenceInfo(ident ReferenceIdent, granularity RowGranularity, dataType types.DataType) *ReferenceInfo {
	return &ReferenceInfo{Ident: ident, Granularity: granularity, Type: dataType}
}

// FunctionInfo describes a registered function implementation
type FunctionInfo struct {
	Ident      FunctionIdent
	ReturnType types.DataType
}

// NewFunctionInfo creates a FunctionInfo
func NewFunctionInfo(ident FunctionIdent, returnType types.DataType) *FunctionInfo {
	return &FunctionInfo{Ident: ident, ReturnType: returnType}
}
