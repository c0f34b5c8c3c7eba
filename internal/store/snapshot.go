package store

import (
	"github.com/aretw0/lattice/internal/tree"
	"github.com/aretw0/lattice/pkg/domain"
)

// FocusState is a plain copy of Focus.
type FocusState struct {
	RowKey           domain.NullRowKey   `json:"rowKey"`
	ColumnName       string              `json:"columnName,omitempty"`
	RowIndex         int                 `json:"rowIndex"`
	TotalColumnIndex int                 `json:"totalColumnIndex"`
	Navigating       bool                `json:"navigating"`
	EditingAddress   *domain.CellAddress `json:"editingAddress"`
}

// RowState is a plain copy of one row, for listings.
type RowState struct {
	RowKey   domain.RowKey     `json:"rowKey"`
	Values   map[string]any    `json:"values"`
	Parent   domain.NullRowKey `json:"parentRowKey"`
	Children []domain.RowKey   `json:"childRowKeys,omitempty"`
	Depth    int               `json:"depth"`
	Leaf     bool              `json:"leaf"`
	Expanded bool              `json:"expanded"`
	Hidden   bool              `json:"hidden"`
	Disabled bool              `json:"disabled,omitempty"`
}

// State is a plain copy of the whole store.
type State struct {
	ID        string                 `json:"id"`
	Focus     FocusState             `json:"focus"`
	Selection *domain.SelectionRange `json:"selection"`
	Columns   []string               `json:"columns"`
	RowCount  int                    `json:"rowCount"`
	ViewCount int                    `json:"viewCount"`
}

// FocusState copies the focus without tracking.
func (s *Store) FocusState() FocusState {
	f := s.Focus
	st := FocusState{
		RowKey:           f.RowKey.Peek(),
		ColumnName:       f.ColumnName.Peek(),
		RowIndex:         f.RowIndex.Peek(),
		TotalColumnIndex: f.TotalColumnIndex.Peek(),
		Navigating:       f.Navigating.Peek(),
	}
	if addr := f.EditingAddress.Peek(); addr != nil {
		cp := *addr
		st.EditingAddress = &cp
	}
	return st
}

// SelectionState copies the input range, or nil.
func (s *Store) SelectionState() *domain.SelectionRange {
	r := s.Selection.InputRange.Peek()
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// State copies focus, selection and sizes.
func (s *Store) State() State {
	var columns []string
	s.ctx.Untracked(func() {
		for _, c := range s.Column.Visible() {
			columns = append(columns, c.Name)
		}
	})
	return State{
		ID:        s.ID,
		Focus:     s.FocusState(),
		Selection: s.SelectionState(),
		Columns:   columns,
		RowCount:  len(s.Data.rawData.Peek()),
		ViewCount: len(s.Data.viewData.Peek()),
	}
}

// Rows copies the raw rows, or only the visible ones.
func (s *Store) Rows(visibleOnly bool) []RowState {
	src := s.Data.rawData.Peek()
	if visibleOnly {
		src = s.Data.viewData.Peek()
	}

	out := make([]RowState, 0, len(src))
	s.ctx.Untracked(func() {
		for _, r := range src {
			st := RowState{
				RowKey:   r.Key,
				Values:   r.Values.Snapshot(),
				Depth:    1,
				Leaf:     r.Leaf(),
				Disabled: r.Attributes.Disabled,
			}
			if t := r.Tree(); t != nil {
				st.Parent = t.ParentRowKey()
				st.Children = t.ChildRowKeys()
				st.Expanded = t.Expanded()
				st.Hidden = t.Hidden()
				st.Depth, _ = tree.Depth(s, r)
			}
			out = append(out, st)
		}
	})
	return out
}
