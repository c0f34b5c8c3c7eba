package dispatch

import "github.com/aretw0/lattice/pkg/domain"

// RemoveRange derives the cells removeContent clears: the normalized input
// range, or the focused cell alone. Rows are view indices, columns data
// column indices. The end edges are clamped to the grid; a range starting
// outside it yields false.
func (d *Dispatcher) RemoveRange() (domain.SelectionRange, bool) {
	s := d.store
	rowCount := len(s.Data.ViewData())
	colCount := len(s.Column.DataColumns())
	if rowCount == 0 || colCount == 0 {
		return domain.SelectionRange{}, false
	}

	var rng domain.SelectionRange
	if r, ok := s.Selection.Range(); ok {
		rng = r.Normalized()
	} else {
		row, col, ok := s.Focus.Indices()
		if !ok {
			return domain.SelectionRange{}, false
		}
		col -= s.Column.RowHeaderCount()
		rng = domain.SelectionRange{Row: [2]int{row, row}, Column: [2]int{col, col}}
	}

	if rng.Row[0] < 0 || rng.Row[0] >= rowCount || rng.Column[0] < 0 || rng.Column[0] >= colCount {
		return domain.SelectionRange{}, false
	}
	rng.Row[1] = clamp(rng.Row[1], rowCount-1)
	rng.Column[1] = clamp(rng.Column[1], colCount-1)
	return rng, true
}
