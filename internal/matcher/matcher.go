package matcher

import (
	"github.com/nconklindev/stylematch/internal/types"
)

// KeySet is the set of normalized keys taken from the reference table.
type KeySet map[string]struct{}

// Has reports whether the normalized form of s is in the set.
func (k KeySet) Has(s string) bool {
	_, ok := k[Normalize(s)]
	return ok
}

// Len returns the number of distinct keys.
func (k KeySet) Len() int {
	return len(k)
}

// BuildKeySet collects the normalized value of every present cell in column col
// of the table body. Duplicates collapse.
func BuildKeySet(t *types.RawTable, col int) KeySet {
	keys := make(KeySet, len(t.Body))
	for _, row := range t.Body {
		cell := row.At(col)
		if !cell.Present {
			continue
		}
		keys[Normalize(cell.Text)] = struct{}{}
	}
	return keys
}

// FilterRows keeps the body rows of t whose cell in column col is non-empty and
// normalizes to a key in keys. Row order is preserved and rows are never deduplicated.
func FilterRows(t *types.RawTable, col int, keys KeySet) *types.MatchResult {
	result := &types.MatchResult{
		Header: t.Header,
		Rows:   []types.Row{},
	}

	for _, row := range t.Body {
		cell := row.At(col)
		if !cell.Present || cell.Text == "" {
			continue
		}
		if keys.Has(cell.Text) {
			result.Rows = append(result.Rows, row)
			result.Count++
		}
	}

	return result
}
