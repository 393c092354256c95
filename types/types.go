// Package types defines the data types flowing through plan fragments and
// the value comparison rules used by filtering and sorting.
package types

// DataType represents the declared type of a column, literal or function result
type DataType string

const (
	TypeNull      DataType = "null"
	TypeBoolean   DataType = "boolean"
	TypeString    DataType = "string"
	TypeShort     DataType = "short"
	TypeInteger   DataType = "integer"
	TypeLong      DataType = "long"
	TypeFloat     DataType = "float"
	TypeDouble    DataType = "double"
	TypeTimestamp DataType = "timestamp"
	TypeObject    DataType = "object"
)

// IsValid checks if a data type is one of the declared types
func (t DataType) IsValid() bool {
	switch t {
	case TypeNull, TypeBoolean, TypeString, TypeShort, TypeInteger,
		TypeLong, TypeFloat, TypeDouble, TypeTimestamp, TypeObject:
		return true
	default:
		return false
	}
}

// Numeric reports whether values of this type order numerically
func (t DataType) Numeric() bool {
	switch t {
	case TypeShort, TypeInteger, TypeLong, TypeFloat, TypeDouble, TypeTimestamp:
		return true
	default:
		return false
	}
}

// FromValue maps a runtime value to its data type. Unrecognized kinds map
// to TypeObject, nil to TypeNull.
func FromValue(v any) DataType {
	switch v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case int16:
		return TypeShort
	case int32:
		return TypeInteger
	case int, int64:
		return TypeLong
	case float32:
		return TypeFloat
	case float64:
		return TypeDouble
	default:
		return TypeObject
	}
}
