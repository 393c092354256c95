package metadata

import (
	"sort"
	"sync"
)

// FunctionImplementation is a registered callable. Evaluate must be pure:
// the same inputs always produce the same value and nothing is mutated.
// Each builtin defines its own null propagation; returning nil means the
// result is unknown.
type FunctionImplementation interface {
	Info() *FunctionInfo
	Evaluate(args ...Input) any
}

// Functions is the process-wide function registry, keyed by FunctionIdent
type Functions struct {
	mu    sync.RWMutex
	impls map[string]FunctionImplementation
}

// NewFunctions creates an empty Functions registry
func NewFunctions() *Functions {
	return &Functions{impls: make(map[string]FunctionImplementation)}
}

// Register adds an implementation under its own ident
func (f *Functions) Register(impl FunctionImplementation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.impls[impl.Info().Ident.Key()] = impl
}

// Get resolves a function by its overload key. Returns nil on a miss.
func (f *Functions) Get(ident FunctionIdent) FunctionImplementation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.impls[ident.Key()]
}

// Keys returns the registered overload keys in a stable order
func (f *Functions) Keys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.impls))
	for k := range f.impls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
