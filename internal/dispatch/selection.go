package dispatch

import "github.com/aretw0/lattice/pkg/domain"

// ChangeSelectionRange replaces the input range. Equal ranges are ignored.
func (d *Dispatcher) ChangeSelectionRange(r *domain.SelectionRange) {
	sel := d.store.Selection
	if cur := sel.InputRange.Get(); cur != nil && r != nil && *cur == *r {
		return
	}
	sel.InputRange.Set(r)
	d.selectionChanged(r)
}

// InitSelection drops the input range.
func (d *Dispatcher) InitSelection() {
	sel := d.store.Selection
	if sel.InputRange.Get() == nil {
		return
	}
	sel.InputRange.Set(nil)
	d.selectionChanged(nil)
}

func (d *Dispatcher) selectionChanged(r *domain.SelectionRange) {
	if d.hooks.OnSelectionChange == nil {
		return
	}
	var cp *domain.SelectionRange
	if r != nil {
		v := *r
		cp = &v
	}
	d.hooks.OnSelectionChange(&domain.SelectionEvent{GridID: d.store.ID, Range: cp})
}
