package operators

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// AndName is the registered name of the logical AND operator
const AndName = "op_and"

// AndIdent is the overload key of AND
var AndIdent = metadata.NewFunctionIdent(AndName, types.TypeBoolean, types.TypeBoolean)

// AndInfo describes the AND implementation
var AndInfo = metadata.NewFunctionInfo(AndIdent, types.TypeBoolean)

// AndOperator implements logical AND. false wins over unknown: any false
// operand yields false, otherwise any unknown operand yields unknown.
type AndOperator struct{}

// NewAnd creates the AND implementation
func NewAnd() *AndOperator { return &AndOperator{} }

// Info returns the function info
func (o *AndOperator) Info() *metadata.FunctionInfo { return AndInfo }

// Evaluate applies three-valued AND
func (o *AndOperator) Evaluate(args ...metadata.Input) any {
	left, right := boolArg(args[0]), boolArg(args[1])
	if (left != nil && !*left) || (right != nil && !*right) {
		return false
	}
	if left == nil || right == nil {
		return nil
	}
	return true
}
