package symbol

import (
	"github.com/shardlite/shardlite/metadata"
)

// Walk visits s and every symbol below it, depth first, stopping early when
// fn returns false.
func Walk(s Symbol, fn func(Symbol) bool) bool {
	if s == nil {
		return true
	}
	if !fn(s) {
		return false
	}
	if f, ok := s.(*Function); ok {
		for _, arg := range f.Args {
			if !Walk(arg, fn) {
				return false
			}
		}
	}
	return true
}

// ContainsGranularity reports whether any reference of the given granularity
// appears in any of the symbols. The collect engine uses this to decide
// between a single node context and per-shard contexts.
func ContainsGranularity(g metadata.RowGranularity, symbols ...Symbol) bool {
	for _, s := range symbols {
		found := false
		Walk(s, func(sub Symbol) bool {
			if ref, ok := sub.(*Reference); ok && ref.Info.Granularity == g {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}
