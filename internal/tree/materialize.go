package tree

import (
	"math"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reactive"
)

// Options controls materialization.
type Options struct {
	// KeyColumnName takes the row key from this column's value when present.
	KeyColumnName string
	// LazyObservable builds plain (untracked) rows and tree attributes.
	LazyObservable bool
	// Offset inserts top-level rows at this child position of the parent
	// instead of appending them.
	Offset *int
	// Disabled marks every materialized row as disabled.
	Disabled bool
	// Used, when set, receives every issued key. An explicit key already in
	// Used is replaced by a fresh one and reported to OnRekey.
	Used    KeySet
	OnRekey func(explicit, issued domain.RowKey)
}

// At returns an Offset value.
func At(offset int) *int {
	return &offset
}

// Materializer turns input rows into store rows for one grid instance.
type Materializer struct {
	ctx  *reactive.Context
	keys *KeyCounter
}

// NewMaterializer binds a materializer to the grid's tracking context and key counter.
func NewMaterializer(ctx *reactive.Context, keys *KeyCounter) *Materializer {
	return &Materializer{ctx: ctx, keys: keys}
}

// Keys returns the grid's key counter.
func (m *Materializer) Keys() *KeyCounter {
	return m.keys
}

// CreateRawData materializes a whole hierarchical data set from scratch.
// In lazy mode the key sequence restarts.
func (m *Materializer) CreateRawData(data []domain.InputRow, opts Options) []*domain.Row {
	if opts.LazyObservable {
		m.keys.Reset()
	}
	opts.Offset = nil
	return m.Flatten(data, nil, opts)
}

// Flatten materializes data under parent in document (pre-order) order.
//
// Children are pushed in reverse so that popping the stack visits them in
// forward order. When opts.Offset is set, the i-th top-level row is inserted
// at Offset+i of parent; descendants are always appended to their own parent.
func (m *Materializer) Flatten(data []domain.InputRow, parent *domain.Row, opts Options) []*domain.Row {
	type frame struct {
		in     *domain.InputRow
		parent *domain.Row
		top    int
	}

	if len(data) == 0 {
		return nil
	}

	stack := make([]frame, 0, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		stack = append(stack, frame{in: &data[i], parent: parent, top: i})
	}

	rows := make([]*domain.Row, 0, len(data))
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rowOpts := opts
		if f.top >= 0 && opts.Offset != nil {
			rowOpts.Offset = At(*opts.Offset + f.top)
		} else {
			rowOpts.Offset = nil
		}

		row := m.CreateRow(*f.in, f.parent, rowOpts)
		rows = append(rows, row)

		for i := len(f.in.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{in: &f.in.Children[i], parent: row, top: -1})
		}
	}
	return rows
}

// CreateRow materializes a single node and links it to parent. Hidden is
// derived from the parent's state at this moment and is not re-derived later.
func (m *Materializer) CreateRow(in domain.InputRow, parent *domain.Row, opts Options) *domain.Row {
	ctx := m.ctx
	if opts.LazyObservable {
		ctx = nil
	}

	row := domain.NewRow(ctx, m.rowKey(in, opts), copyValues(in.Values))
	row.Attributes.Disabled = opts.Disabled || in.Attributes.Disabled

	parentKey := domain.NullRowKey{}
	hidden := false
	if parent != nil {
		parentKey = domain.SomeRowKey(parent.Key)
		hidden = !IsExpanded(parent) || IsHidden(parent)
	}
	row.Attributes.Tree = domain.NewTreeAttributes(ctx, parentKey, nil, hidden, in.Attributes.Expanded)

	if parent != nil {
		if opts.Offset != nil {
			InsertChild(parent, row, *opts.Offset)
		} else {
			AddChild(parent, row)
		}
	}
	return row
}

// CreateRows materializes a flat (non-hierarchical) data set. Children of
// the input rows are ignored and no tree attributes are attached.
func (m *Materializer) CreateRows(data []domain.InputRow, opts Options) []*domain.Row {
	ctx := m.ctx
	if opts.LazyObservable {
		ctx = nil
	}
	rows := make([]*domain.Row, 0, len(data))
	for _, in := range data {
		row := domain.NewRow(ctx, m.rowKey(in, opts), copyValues(in.Values))
		row.Attributes.Disabled = opts.Disabled || in.Attributes.Disabled
		rows = append(rows, row)
	}
	return rows
}

// AddChild appends child to parent, idempotently on both Children and
// ChildRowKeys.
func AddChild(parent, child *domain.Row) {
	InsertChild(parent, child, -1)
}

// InsertChild links child at offset of parent. An out-of-range offset appends.
// A child already linked is not duplicated.
func InsertChild(parent, child *domain.Row, offset int) {
	if t := parent.Tree(); t != nil {
		t.InsertChild(child.Key, offset)
	}
	if parent.ChildIndex(child.Key) < 0 {
		if offset < 0 || offset > len(parent.Children) {
			offset = len(parent.Children)
		}
		parent.Children = append(parent.Children, nil)
		copy(parent.Children[offset+1:], parent.Children[offset:])
		parent.Children[offset] = child
	}
	parent.SetLeaf(false)
}

// RemoveChild unlinks child from parent. The parent becomes a leaf when its
// last child goes away.
func RemoveChild(parent, child *domain.Row) {
	if t := parent.Tree(); t != nil {
		t.RemoveChild(child.Key)
	}
	if i := parent.ChildIndex(child.Key); i >= 0 {
		parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
	}
	parent.SetLeaf(len(parent.Children) == 0)
}

func (m *Materializer) rowKey(in domain.InputRow, opts Options) domain.RowKey {
	k, explicit := ExplicitKey(in, opts)
	switch {
	case !explicit:
		k = m.nextFree(opts.Used)
	case opts.Used.Has(k):
		issued := m.nextFree(opts.Used)
		if opts.OnRekey != nil {
			opts.OnRekey(k, issued)
		}
		k = issued
	default:
		m.keys.Observe(k)
	}
	if opts.Used != nil {
		opts.Used.Add(k)
	}
	return k
}

func (m *Materializer) nextFree(used KeySet) domain.RowKey {
	k := m.keys.Next()
	for used.Has(k) {
		k = m.keys.Next()
	}
	return k
}

func toRowKey(v any) (domain.RowKey, bool) {
	switch n := v.(type) {
	case domain.RowKey:
		return n, true
	case int:
		return domain.RowKey(n), true
	case int64:
		return domain.RowKey(n), true
	case uint64:
		return domain.RowKey(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return domain.RowKey(n), true
	}
	return 0, false
}

func copyValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
