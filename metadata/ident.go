// Package metadata holds the identifiers and registries that bind plan
// symbols to live value implementations on the local node.
package metadata

import (
	"strings"

	"github.com/shardlite/shardlite/types"
)

// TableIdent identifies a table within a schema
type TableIdent struct {
	Schema string
	Name   string
}

// NewTableIdent creates a TableIdent
func NewTableIdent(schema, name string) TableIdent {
	return TableIdent{Schema: schema, Name: name}
}

func (t TableIdent) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ReferenceIdent is the stable identity of a column reference
type ReferenceIdent struct {
	Table  TableIdent
	Column string
}

// NewReferenceIdent creates a ReferenceIdent
func NewReferenceIdent(table TableIdent, column string) ReferenceIdent {
	return ReferenceIdent{Table: table, Column: column}
}

func (r ReferenceIdent) String() string {
	return r.Table.String() + "." + r.Column
}

// RootColumn returns the top-level column name for a dotted column path,
// and the remaining path segments below it.
func (r ReferenceIdent) RootColumn() (string, []string) {
	parts := strings.Split(r.Column, ".")
	return parts[0], parts[1:]
}

// FunctionIdent is the overload key of a callable: its name plus the
// ordered argument types.
type FunctionIdent struct {
	Name     string
	ArgTypes []types.DataType
}

// NewFunctionIdent creates a FunctionIdent
func NewFunctionIdent(name string, argTypes ...types.DataType) FunctionIdent {
	return FunctionIdent{Name: name, ArgTypes: argTypes}
}

// Key renders the ident into a registry key, e.g. "op_=(integer,integer)"
func (f FunctionIdent) Key() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, t := range f.ArgTypes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(t))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (f FunctionIdent) String() string {
	return f.Key()
}
