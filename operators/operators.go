// Package operators provides the builtin scalar functions available to plan
// fragments: logical and/or/not plus equality over every comparable type.
//
// All builtins follow SQL three-valued logic. A nil return value means the
// result is unknown; the collect engine treats an unknown filter result as
// not admitted. Arity is enforced at bind time, so Evaluate may assume the
// declared argument count.
package operators

import (
	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/types"
)

// eqTypes are the data types equality is registered for, one overload each
var eqTypes = []types.DataType{
	types.TypeBoolean,
	types.TypeString,
	types.TypeShort,
	types.TypeInteger,
	types.TypeLong,
	types.TypeFloat,
	types.TypeDouble,
	types.TypeTimestamp,
}

// RegisterAll adds every builtin operator to the registry
func RegisterAll(functions *metadata.Functions) {
	functions.Register(NewAnd())
	functions.Register(NewOr())
	functions.Register(NewNot())
	for _, t := range eqTypes {
		functions.Register(NewEq(t))
	}
}

// boolArg reads an argument as a three-valued boolean: nil means unknown
func boolArg(arg metadata.Input) *bool {
	v, ok := arg.Value().(bool)
	if !ok {
		return nil
	}
	return &v
}
