package domain

// CellAddress identifies a single cell.
type CellAddress struct {
	RowKey     RowKey `json:"rowKey"`
	ColumnName string `json:"columnName"`
}

// SelectionRange is an inclusive rectangular span. Row indices are viewport
// indices; column indices are relative to data columns (row headers excluded).
// Index 0 of each pair is the anchor edge, index 1 the moving edge.
type SelectionRange struct {
	Row    [2]int `json:"row"`
	Column [2]int `json:"column"`
}

// Normalized returns the range with start <= end on both axes.
func (r SelectionRange) Normalized() SelectionRange {
	return SelectionRange{
		Row:    orderPair(r.Row),
		Column: orderPair(r.Column),
	}
}

// Contains reports whether the cell (row, column) lies inside the range.
func (r SelectionRange) Contains(row, column int) bool {
	n := r.Normalized()
	return row >= n.Row[0] && row <= n.Row[1] && column >= n.Column[0] && column <= n.Column[1]
}

func orderPair(p [2]int) [2]int {
	if p[0] > p[1] {
		return [2]int{p[1], p[0]}
	}
	return p
}
