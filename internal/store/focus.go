package store

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reactive"
)

// Focus is the active cell. RowIndex and TotalColumnIndex are derived from
// RowKey and ColumnName against the view rows and visible columns; -1 means
// unresolved.
type Focus struct {
	RowKey           *reactive.Value[domain.NullRowKey]
	ColumnName       *reactive.Value[string]
	RowIndex         *reactive.Value[int]
	TotalColumnIndex *reactive.Value[int]
	Navigating       *reactive.Value[bool]
	EditingAddress   *reactive.Value[*domain.CellAddress]
}

func newFocus(ctx *reactive.Context) *Focus {
	return &Focus{
		RowKey:           reactive.NewValue(ctx, domain.NullRowKey{}),
		ColumnName:       reactive.NewValue(ctx, ""),
		RowIndex:         reactive.NewValue(ctx, -1),
		TotalColumnIndex: reactive.NewValue(ctx, -1),
		Navigating:       reactive.NewValue(ctx, false),
		EditingAddress:   reactive.NewValue[*domain.CellAddress](ctx, nil),
	}
}

// Address returns the focused cell, or false when nothing is focused.
func (f *Focus) Address() (domain.CellAddress, bool) {
	key := f.RowKey.Get()
	name := f.ColumnName.Get()
	if !key.Valid || name == "" {
		return domain.CellAddress{}, false
	}
	return domain.CellAddress{RowKey: key.Key, ColumnName: name}, true
}

// Indices returns the resolved view row and total column index.
func (f *Focus) Indices() (row, column int, ok bool) {
	row, column = f.RowIndex.Get(), f.TotalColumnIndex.Get()
	return row, column, row >= 0 && column >= 0
}

// Editing reports whether a cell is in edit mode.
func (f *Focus) Editing() bool {
	return f.EditingAddress.Get() != nil
}

// Clear returns focus to idle.
func (f *Focus) Clear() {
	f.EditingAddress.Set(nil)
	f.Navigating.Set(false)
	f.RowKey.Set(domain.NullRowKey{})
	f.ColumnName.Set("")
}

// Selection holds the active input range; nil means no selection.
type Selection struct {
	InputRange *reactive.Value[*domain.SelectionRange]
}

func newSelection(ctx *reactive.Context) *Selection {
	return &Selection{InputRange: reactive.NewValue[*domain.SelectionRange](ctx, nil)}
}

// Range returns the active range by value.
func (s *Selection) Range() (domain.SelectionRange, bool) {
	r := s.InputRange.Get()
	if r == nil {
		return domain.SelectionRange{}, false
	}
	return *r, true
}
