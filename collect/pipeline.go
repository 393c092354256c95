package collect

import (
	"sort"

	"github.com/shardlite/shardlite/plan"
	"github.com/shardlite/shardlite/types"
)

// applyPipeline runs the ordered tail of a collect call over the gathered
// rows: stable sort, then offset, then limit. The gather itself carries no
// order; the sort here is the only source of determinism.
func applyPipeline(rows [][]any, node *plan.CollectNode) [][]any {
	if node.IsOrdered() {
		sortRows(rows, node.OrderBy, node.Reverse)
	}

	if node.Offset > 0 {
		if node.Offset >= len(rows) {
			return [][]any{}
		}
		rows = rows[node.Offset:]
	}

	if node.IsLimited() && node.Limit < len(rows) {
		rows = rows[:node.Limit]
	}

	if rows == nil {
		rows = [][]any{}
	}
	return rows
}

// sortRows stable-sorts rows by the output positions as a lexicographic
// composite key. A descending column flips its whole comparison, so nulls
// rank last ascending and first descending.
func sortRows(rows [][]any, positions []int, reverse []bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		for k, pos := range positions {
			cmp := types.Compare(rows[i][pos], rows[j][pos])
			if reverse[k] {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}
