package operators

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// NotName is the registered name of the logical NOT operator
const NotName = "op_not"

// NotIdent is the overload key of NOT
var NotIdent = metadata.NewFunctionIdent(NotName, types.TypeBoolean)

// NotInfo describes the NOT implementation
var NotInfo = metadata.NewFunctionInfo(NotIdent, types.TypeBoolean)

// NotOperator implements logical NOT; NOT unknown stays unknown
type NotOperator struct{}

// NewNot creates the NOT implementation
func NewNot() *NotOperator { return &NotOperator{} }

// Info returns the function info
func (o *NotOperator) Info() *metadata.FunctionInfo { return NotInfo }

// Evaluate negates a three-valued boolean
func (o *NotOperator) Evaluate(args ...metadata.Input) any {
	v := boolArg(args[0])
	if v == nil {
		return nil
	}
	return !*v
}
