package store

import (
	"github.com/aretw0/lattice/internal/tree"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reactive"
)

// Data holds every row in document order and the visible subset.
type Data struct {
	rawData  *reactive.Value[[]*domain.Row]
	viewData *reactive.Value[[]*domain.Row]
}

func newData(ctx *reactive.Context) *Data {
	d := &Data{
		rawData:  reactive.NewValue[[]*domain.Row](ctx, nil),
		viewData: reactive.NewValue[[]*domain.Row](ctx, nil),
	}
	// View rows re-derive whenever the raw list or any row's hidden flag changes.
	ctx.Observe(func() {
		raw := d.rawData.Get()
		view := make([]*domain.Row, 0, len(raw))
		for _, r := range raw {
			if !tree.IsHidden(r) {
				view = append(view, r)
			}
		}
		d.viewData.Set(view)
	})
	return d
}

// RawData returns every row, hidden included.
func (d *Data) RawData() []*domain.Row {
	return d.rawData.Get()
}

// ViewData returns the visible rows.
func (d *Data) ViewData() []*domain.Row {
	return d.viewData.Get()
}

// RawIndex returns the position of key in the raw rows, or -1.
func (d *Data) RawIndex(key domain.RowKey) int {
	for i, r := range d.rawData.Peek() {
		if r.Key == key {
			return i
		}
	}
	return -1
}

func (d *Data) setRaw(rows []*domain.Row) {
	d.rawData.Set(rows)
}
