package tree

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// IsExpanded reports whether row shows its children. Flat rows are never expanded.
func IsExpanded(row *domain.Row) bool {
	if t := row.Tree(); t != nil {
		return t.Expanded()
	}
	return false
}

// IsHidden reports whether row is hidden by a collapsed ancestor.
func IsHidden(row *domain.Row) bool {
	if t := row.Tree(); t != nil {
		return t.Hidden()
	}
	return false
}

// IsLeaf reports whether row has no children.
func IsLeaf(row *domain.Row) bool {
	return row.Leaf()
}

// IsRoot reports whether row has no parent.
func IsRoot(row *domain.Row) bool {
	t := row.Tree()
	return t == nil || !t.ParentRowKey().Valid
}

// Depth walks the ancestor chain of row; root rows have depth 1.
// ok is false when the chain references a row that no longer exists (or
// loops), in which case the depth counted so far is returned.
func Depth(rows ports.RowFinder, row *domain.Row) (depth int, ok bool) {
	seen := map[domain.RowKey]struct{}{row.Key: {}}
	current := row
	for {
		depth++
		t := current.Tree()
		if t == nil {
			return depth, true
		}
		parentKey := t.ParentRowKey()
		if !parentKey.Valid {
			return depth, true
		}
		if _, loop := seen[parentKey.Key]; loop {
			return depth, false
		}
		parent, found := rows.FindRow(parentKey.Key)
		if !found {
			return depth, false
		}
		seen[parentKey.Key] = struct{}{}
		current = parent
	}
}

// Descendants returns every row below row in document order.
func Descendants(row *domain.Row) []*domain.Row {
	var out []*domain.Row
	stack := make([]*domain.Row, 0, len(row.Children))
	for i := len(row.Children) - 1; i >= 0; i-- {
		stack = append(stack, row.Children[i])
	}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, current)
		for i := len(current.Children) - 1; i >= 0; i-- {
			stack = append(stack, current.Children[i])
		}
	}
	return out
}

// RefreshHidden recomputes Hidden for every descendant of row from the
// expanded/hidden state of its parent.
func RefreshHidden(row *domain.Row) {
	type frame struct{ row, parent *domain.Row }

	stack := make([]frame, 0, len(row.Children))
	for i := len(row.Children) - 1; i >= 0; i-- {
		stack = append(stack, frame{row.Children[i], row})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t := f.row.Tree(); t != nil {
			t.SetHidden(!IsExpanded(f.parent) || IsHidden(f.parent))
		}
		for i := len(f.row.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.row.Children[i], f.row})
		}
	}
}
