package operators

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// EqName is the registered name of the equality operator
const EqName = "op_="

// EqIdent returns the overload key of equality for one operand type
func EqIdent(t types.DataType) metadata.FunctionIdent {
	return metadata.NewFunctionIdent(EqName, t, t)
}

// EqOperator implements equality for a single operand type. Comparing
// against null yields unknown, never false; the engine excludes rows whose
// filter is unknown.
type EqOperator struct {
	info *metadata.FunctionInfo
}

// NewEq creates the equality implementation for one operand type
func NewEq(t types.DataType) *EqOperator {
	return &EqOperator{info: metadata.NewFunctionInfo(EqIdent(t), types.TypeBoolean)}
}

// Info returns the function info
func (o *EqOperator) Info() *metadata.FunctionInfo { return o.info }

// Evaluate compares both operands, widening across numeric representations
func (o *EqOperator) Evaluate(args ...metadata.Input) any {
	left, right := args[0].Value(), args[1].Value()
	if left == nil || right == nil {
		return nil
	}
	return types.Equal(left, right)
}
