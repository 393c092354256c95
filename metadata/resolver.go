package metadata

import (
	"sort"
	"sync"
)

// ReferenceResolver maps reference identifiers to live implementations for
// one scope (the whole process, or a single shard).
type ReferenceResolver interface {
	GetImplementation(ident ReferenceIdent) ReferenceImplementation
}

// Registry is a mutable ReferenceResolver. Registration happens at startup
// and at shard-open time; lookups happen concurrently afterwards.
type Registry struct {
	mu    sync.RWMutex
	impls map[ReferenceIdent]ReferenceImplementation
}

// NewRegistry creates a Registry, optionally seeded with implementations
func NewRegistry(impls map[ReferenceIdent]ReferenceImplementation) *Registry {
	m := make(map[ReferenceIdent]ReferenceImplementation, len(impls))
	for ident, impl := range impls {
		m[ident] = impl
	}
	return &Registry{impls: m}
}

// Register adds an implementation under its own ident
func (r *Registry) Register(impl ReferenceImplementation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.impls[impl.Info().Ident] = impl
}

// GetImplementation resolves an ident, walking child implementations for
// dotted column paths of object typed columns. Returns nil on a miss.
func (r *Registry) GetImplementation(ident ReferenceIdent) ReferenceImplementation {
	r.mu.RLock()
	impl, ok := r.impls[ident]
	r.mu.RUnlock()
	if ok {
		return impl
	}

	root, rest := ident.RootColumn()
	if len(rest) == 0 {
		return nil
	}

	r.mu.RLock()
	impl, ok = r.impls[NewReferenceIdent(ident.Table, root)]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	for _, name := range rest {
		if impl = impl.ChildImplementation(name); impl == nil {
			return nil
		}
	}
	return impl
}

// Idents returns the registered idents in a stable order
func (r *Registry) Idents() []ReferenceIdent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idents := make([]ReferenceIdent, 0, len(r.impls))
	for ident := range r.impls {
		idents = append(idents, ident)
	}
	sort.Slice(idents, func(i, j int) bool {
		return idents[i].String() < idents[j].String()
	})
	return idents
}
