package dispatch

import "github.com/aretw0/lattice/pkg/domain"

// ChangeFocus moves focus to (rowKey, columnName). OnFocusChange runs first
// and may veto the change. Leaving a cell also leaves edit mode.
// It reports whether focus changed.
func (d *Dispatcher) ChangeFocus(rowKey domain.NullRowKey, columnName string) bool {
	f := d.store.Focus
	prevKey, prevName := f.RowKey.Get(), f.ColumnName.Get()
	if prevKey == rowKey && prevName == columnName {
		return false
	}

	if d.hooks.OnFocusChange != nil {
		ev := &domain.FocusEvent{
			GridID:         d.store.ID,
			RowKey:         rowKey,
			ColumnName:     columnName,
			PrevRowKey:     prevKey,
			PrevColumnName: prevName,
		}
		d.hooks.OnFocusChange(ev)
		if ev.Stopped() {
			d.logger.Debug("focus change stopped", "row", rowKey.Key, "column", columnName)
			return false
		}
	}

	f.EditingAddress.Set(nil)
	f.RowKey.Set(rowKey)
	f.ColumnName.Set(columnName)
	return true
}
