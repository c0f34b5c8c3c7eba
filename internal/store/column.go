package store

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reactive"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ColumnModel keeps every column by name, in display order.
type ColumnModel struct {
	all     *orderedmap.OrderedMap[string, *domain.Column]
	visible *reactive.Value[[]*domain.Column]
}

// NewColumnModel builds the model with rowHeaders placed before columns.
func NewColumnModel(ctx *reactive.Context, rowHeaders []string, columns []domain.Column) (*ColumnModel, error) {
	m := &ColumnModel{all: orderedmap.New[string, *domain.Column]()}

	for _, name := range rowHeaders {
		if !domain.IsRowHeader(name) {
			return nil, fmt.Errorf("row header %q: %w", name, domain.ErrUnknownColumn)
		}
		if _, present := m.all.Set(name, &domain.Column{Name: name}); present {
			return nil, fmt.Errorf("row header %q: %w", name, domain.ErrDuplicateColumn)
		}
	}
	for i := range columns {
		col := columns[i]
		if col.Name == "" || domain.IsRowHeader(col.Name) {
			return nil, fmt.Errorf("column %d %q: %w", i, col.Name, domain.ErrUnknownColumn)
		}
		if _, present := m.all.Set(col.Name, &col); present {
			return nil, fmt.Errorf("column %q: %w", col.Name, domain.ErrDuplicateColumn)
		}
	}

	m.visible = reactive.NewValue(ctx, m.collectVisible())
	return m, nil
}

// Get returns the column named name, hidden or not.
func (m *ColumnModel) Get(name string) (*domain.Column, bool) {
	return m.all.Get(name)
}

// All returns every column in display order.
func (m *ColumnModel) All() []*domain.Column {
	out := make([]*domain.Column, 0, m.all.Len())
	for p := m.all.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// Visible returns the visible columns, row headers included.
func (m *ColumnModel) Visible() []*domain.Column {
	return m.visible.Get()
}

// DataColumns returns the visible columns without row headers.
func (m *ColumnModel) DataColumns() []*domain.Column {
	visible := m.Visible()
	return visible[m.rowHeaderCount(visible):]
}

// RowHeaderCount returns the number of visible row header columns.
func (m *ColumnModel) RowHeaderCount() int {
	return m.rowHeaderCount(m.Visible())
}

// SetHidden shows or hides a data column.
func (m *ColumnModel) SetHidden(name string, hidden bool) error {
	col, ok := m.all.Get(name)
	if !ok || col.RowHeader() {
		return fmt.Errorf("column %q: %w", name, domain.ErrUnknownColumn)
	}
	if col.Hidden == hidden {
		return nil
	}
	col.Hidden = hidden
	m.visible.Set(m.collectVisible())
	return nil
}

// IndexOf returns the position of name among visible columns, or -1.
func (m *ColumnModel) IndexOf(name string) int {
	for i, col := range m.Visible() {
		if col.Name == name {
			return i
		}
	}
	return -1
}

func (m *ColumnModel) collectVisible() []*domain.Column {
	out := make([]*domain.Column, 0, m.all.Len())
	for p := m.all.Oldest(); p != nil; p = p.Next() {
		if !p.Value.Hidden {
			out = append(out, p.Value)
		}
	}
	return out
}

// rowHeaderCount relies on row headers always leading the visible list.
func (m *ColumnModel) rowHeaderCount(visible []*domain.Column) int {
	n := 0
	for n < len(visible) && visible[n].RowHeader() {
		n++
	}
	return n
}
