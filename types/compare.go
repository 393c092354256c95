package types

import (
	"fmt"
	"strings"
)

// Compare imposes a total order on runtime values so that sorting never has
// to fail mid-pipeline. nil ranks above every non-nil value, which places
// nulls last under ascending order. Numeric values compare across integer
// and float representations. Values of unrelated types fall back to their
// string rendering so the order stays deterministic.
func Compare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Equal reports value equality under the same numeric widening rules as
// Compare. Callers decide how nulls behave before calling; Equal treats two
// nils as equal.
func Equal(a, b any) bool {
	return Compare(a, b) == 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
