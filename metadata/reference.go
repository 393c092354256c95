package metadata

// Input yields the current value for a bound reference within one
// evaluation context. Implementations must be side-effect free; the collect
// engine reads them concurrently without locking.
type Input interface {
	Value() any
}

// ReferenceImplementation is a live value accessor for a reference. Object
// typed columns expose nested fields through ChildImplementation; leaf
// columns return nil for every child name.
type ReferenceImplementation interface {
	Input
	Info() *ReferenceInfo
	ChildImplementation(name string) ReferenceImplementation
}

// LiteralInput wraps a constant value as an Input
type LiteralInput struct {
	Val any
}

// Value returns the wrapped constant
func (l LiteralInput) Value() any { return l.Val }
