package operators

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// OrName is the registered name of the logical OR operator
const OrName = "op_or"

// OrIdent is the overload key of OR
var OrIdent = metadata.NewFunctionIdent(OrName, types.TypeBoolean, types.TypeBoolean)

// OrInfo describes the OR implementation
var OrInfo = metadata.NewFunctionInfo(OrIdent, types.TypeBoolean)

// OrOperator implements logical OR. true wins over unknown: any true
// operand yields true, otherwise any unknown operand yields unknown.
type OrOperator struct{}

// NewOr creates the OR implementation
func NewOr() *OrOperator { return &OrOperator{} }

// Info returns the function info
func (o *OrOperator) Info() *metadata.FunctionInfo { return OrInfo }

// Evaluate applies three-valued OR
func (o *OrOperator) Evaluate(args ...metadata.Input) any {
	left, right := boolArg(args[0]), boolArg(args[1])
	if (left != nil && *left) || (right != nil && *right) {
		return true
	}
	if left == nil || right == nil {
		return nil
	}
	return false
}
