package collect

import (
	"fmt"
	"sync"

	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/symbol"
)

// binder resolves a symbol tree into bound inputs for one evaluation
// context. Resolvers are consulted most specific first: a shard context
// lists its shard registry before the process-wide one, so shard references
// resolve per shard while node references stay shared.
type binder struct {
	functions *metadata.Functions
	resolvers []metadata.ReferenceResolver
}

// bind resolves one symbol. Every miss is a bind-time failure; a reference
// the planner could not type has already been replaced by a Null symbol
// before the fragment reaches this node, so a miss here is a programming
// error, never user input.
func (b *binder) bind(s symbol.Symbol) (metadata.Input, error) {
	switch sym := s.(type) {
	case *symbol.Literal:
		return metadata.LiteralInput{Val: sym.Value}, nil
	case *symbol.Null:
		return metadata.LiteralInput{}, nil
	case *symbol.Reference:
		for _, r := range b.resolvers {
			if impl := r.GetImplementation(sym.Info.Ident); impl != nil {
				return impl, nil
			}
		}
		return nil, NewUnknownReference(sym.Info.Ident)
	case *symbol.Function:
		if len(sym.Args) != len(sym.Info.Ident.ArgTypes) {
			return nil, NewArityMismatch(sym.Info.Ident, len(sym.Args))
		}
		impl := b.functions.Get(sym.Info.Ident)
		if impl == nil {
			return nil, NewUnknownFunction(sym.Info.Ident)
		}
		args := make([]metadata.Input, len(sym.Args))
		for i, arg := range sym.Args {
			bound, err := b.bind(arg)
			if err != nil {
				return nil, err
			}
			args[i] = bound
		}
		return functionInput{impl: impl, args: args}, nil
	default:
		return nil, fmt.Errorf("cannot bind symbol of type %T", s)
	}
}

// bindAll resolves a slice of symbols in declared order
func (b *binder) bindAll(symbols []symbol.Symbol) ([]metadata.Input, error) {
	inputs := make([]metadata.Input, len(symbols))
	for i, s := range symbols {
		bound, err := b.bind(s)
		if err != nil {
			return nil, err
		}
		inputs[i] = bound
	}
	return inputs, nil
}

// callResolver memoizes lookups against the node-scope resolver for the
// duration of one collect call. A node reference resolves once and every
// evaluation context shares the result; misses are cached too, so a
// reference registered mid-call stays invisible to it.
type callResolver struct {
	base metadata.ReferenceResolver
	mu   sync.Mutex
	seen map[metadata.ReferenceIdent]metadata.ReferenceImplementation
}

func newCallResolver(base metadata.ReferenceResolver) *callResolver {
	return &callResolver{
		base: base,
		seen: make(map[metadata.ReferenceIdent]metadata.ReferenceImplementation),
	}
}

func (c *callResolver) GetImplementation(ident metadata.ReferenceIdent) metadata.ReferenceImplementation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if impl, ok := c.seen[ident]; ok {
		return impl
	}
	impl := c.base.GetImplementation(ident)
	c.seen[ident] = impl
	return impl
}

// functionInput is a bound function call: evaluating it evaluates the
// arguments left to right, then the registered implementation.
type functionInput struct {
	impl metadata.FunctionImplementation
	args []metadata.Input
}

func (f functionInput) Value() any {
	return f.impl.Evaluate(f.args...)
}
