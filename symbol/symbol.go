// Package symbol models the typed expression tree of a plan fragment.
//
// A Symbol tree is built once by the planner and shared read-only across
// concurrent evaluation contexts; nothing here mutates after construction.
// The variant is closed: Reference, Function, Literal and Null are the only
// implementations.
package symbol

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// Symbol is one node of the expression tree
type Symbol interface {
	DataType() types.DataType
	isSymbol()
}

// Reference points at a column whose value a resolver supplies per context
type Reference struct {
	Info *metadata.ReferenceInfo
}

// NewReference creates a Reference symbol
func NewReference(info *metadata.ReferenceInfo) *Reference {
	return &Reference{Info: info}
}

func (r *Reference) DataType() types.DataType { return r.Info.Type }
func (r *Reference) isSymbol()                {}

// Function is a call of a registered implementation with ordered arguments
type Function struct {
	Info *metadata.FunctionInfo
	Args []Symbol
}

// NewFunction creates a Function symbol
func NewFunction(info *metadata.FunctionInfo, args ...Symbol) *Function {
	return &Function{Info: info, Args: args}
}

func (f *Function) DataType() types.DataType { return f.Info.ReturnType }
func (f *Function) isSymbol()                {}

// Literal is a typed constant
type Literal struct {
	Type  types.DataType
	Value any
}

// NewLiteral creates a Literal symbol
func NewLiteral(dataType types.DataType, value any) *Literal {
	return &Literal{Type: dataType, Value: value}
}

// BooleanLiteral creates a boolean Literal
func BooleanLiteral(v bool) *Literal { return NewLiteral(types.TypeBoolean, v) }

// StringLiteral creates a string Literal
func StringLiteral(v string) *Literal { return NewLiteral(types.TypeString, v) }

// IntegerLiteral creates an integer Literal
func IntegerLiteral(v int32) *Literal { return NewLiteral(types.TypeInteger, v) }

// LongLiteral creates a long Literal
func LongLiteral(v int64) *Literal { return NewLiteral(types.TypeLong, v) }

// DoubleLiteral creates a double Literal
func DoubleLiteral(v float64) *Literal { return NewLiteral(types.TypeDouble, v) }

func (l *Literal) DataType() types.DataType { return l.Type }
func (l *Literal) isSymbol()                {}

// Null is the untyped absent value
type Null struct{}

// NullValue is the shared Null instance
var NullValue = &Null{}

func (n *Null) DataType() types.DataType { return types.TypeNull }
func (n *Null) isSymbol()                {}
