package dispatch

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// MoveFocus moves the focused cell by cmd. Moves that land on a row header
// column are rejected and leave focus unchanged.
func (d *Dispatcher) MoveFocus(cmd domain.Command) {
	s := d.store
	row, col, ok := s.Focus.Indices()
	if !ok {
		d.logger.Debug("move ignored", "reason", "unresolved focus", "command", cmd.String())
		return
	}

	view := s.Data.ViewData()
	columns := s.Column.Visible()
	b := ports.Bounds{
		RowCount:    len(view),
		ColumnCount: len(columns),
		FirstColumn: s.Column.RowHeaderCount(),
		PageSize:    s.PageSize(),
	}
	nextRow, nextCol := d.nextCellIndex(cmd, row, col, b)
	name := columns[nextCol].Name

	if domain.IsRowHeader(name) {
		d.logger.Debug("move rejected", "command", cmd.String(), "column", name)
		if d.hooks.OnMoveRejected != nil {
			cur, _ := s.Focus.Address()
			d.hooks.OnMoveRejected(&domain.FocusEvent{
				GridID:         s.ID,
				RowKey:         domain.SomeRowKey(view[nextRow].Key),
				ColumnName:     name,
				PrevRowKey:     domain.SomeRowKey(cur.RowKey),
				PrevColumnName: cur.ColumnName,
			})
		}
		return
	}

	next := domain.SomeRowKey(view[nextRow].Key)
	if d.ChangeFocus(next, name) || (s.Focus.RowKey.Peek() == next && s.Focus.ColumnName.Peek() == name) {
		s.Focus.Navigating.Set(true)
	}
}

// EditFocus enters edit mode on the focused cell for CommandCurrentCell when
// its column has an editor and its row is enabled. Other commands are ignored.
func (d *Dispatcher) EditFocus(cmd domain.Command) {
	s := d.store
	addr, ok := s.Focus.Address()
	if !ok || cmd != domain.CommandCurrentCell {
		return
	}

	col, ok := s.Column.Get(addr.ColumnName)
	if !ok || !col.Editable() {
		d.logger.Debug("edit ignored", "reason", "no editor", "column", addr.ColumnName)
		return
	}
	if row, ok := s.FindRow(addr.RowKey); ok && row.Attributes.Disabled {
		d.logger.Debug("edit ignored", "reason", "disabled row", "row", addr.RowKey)
		return
	}

	s.Focus.Navigating.Set(false)
	s.Focus.EditingAddress.Set(&addr)

	if d.hooks.OnEditStart != nil {
		d.hooks.OnEditStart(&domain.FocusEvent{
			GridID:     s.ID,
			RowKey:     domain.SomeRowKey(addr.RowKey),
			ColumnName: addr.ColumnName,
		})
	}
}

// ChangeSelection grows or shrinks the input range by moving its end edge.
// Without a range, one is first seeded on the focused cell. CommandAll
// selects every visible row and data column.
func (d *Dispatcher) ChangeSelection(cmd domain.Command) {
	s := d.store
	focusRow, focusCol, ok := s.Focus.Indices()
	if !ok {
		d.logger.Debug("selection ignored", "reason", "unresolved focus", "command", cmd.String())
		return
	}

	rowCount := len(s.Data.ViewData())
	colCount := len(s.Column.DataColumns())
	if rowCount == 0 || colCount == 0 {
		return
	}

	// The seed is only committed together with the first extension, so a
	// no-op extension still reports the new single-cell range.
	current := s.Selection.InputRange.Get()
	if current == nil {
		dataCol := clamp(focusCol-s.Column.RowHeaderCount(), colCount-1)
		current = &domain.SelectionRange{
			Row:    [2]int{focusRow, focusRow},
			Column: [2]int{dataCol, dataCol},
		}
	}

	startRow, startCol := current.Row[0], current.Column[0]
	var endRow, endCol int
	if cmd == domain.CommandAll {
		startRow, startCol = 0, 0
		endRow, endCol = rowCount-1, colCount-1
	} else {
		b := ports.Bounds{RowCount: rowCount, ColumnCount: colCount, PageSize: s.PageSize()}
		endRow, endCol = d.nextCellIndex(cmd, current.Row[1], current.Column[1], b)
	}

	d.ChangeSelectionRange(&domain.SelectionRange{
		Row:    [2]int{startRow, endRow},
		Column: [2]int{startCol, endCol},
	})
}

// RemoveContent sets every editable cell of the remove range to "".
// Columns without an editor and disabled rows are left as they are.
func (d *Dispatcher) RemoveContent() {
	s := d.store
	rng, ok := d.RemoveRange()
	if !ok {
		d.logger.Debug("remove ignored", "reason", "no range")
		return
	}

	view := s.Data.ViewData()
	dataColumns := s.Column.DataColumns()

	var names []string
	for _, col := range dataColumns[rng.Column[0] : rng.Column[1]+1] {
		if col.Editable() {
			names = append(names, col.Name)
		}
	}

	cleared := 0
	for _, name := range names {
		for _, row := range view[rng.Row[0] : rng.Row[1]+1] {
			if row.Attributes.Disabled {
				continue
			}
			row.SetValue(name, "")
			cleared++
		}
	}

	if d.hooks.OnContentRemove != nil {
		d.hooks.OnContentRemove(&domain.RemoveEvent{
			GridID:  s.ID,
			Range:   rng,
			Columns: names,
			Cleared: cleared,
		})
	}
}

// SetFocusInfo commits a pointer-driven focus change. Coordinates are not
// validated.
func (d *Dispatcher) SetFocusInfo(rowKey domain.NullRowKey, columnName string, navigating bool) {
	d.store.Focus.Navigating.Set(navigating)
	d.ChangeFocus(rowKey, columnName)
}
