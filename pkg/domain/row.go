package domain

import (
	"encoding/json"

	"github.com/aretw0/lattice/pkg/reactive"
)

// RowKey identifies a row within one grid instance.
type RowKey int

// NullRowKey is a RowKey that may be absent.
type NullRowKey struct {
	Key   RowKey
	Valid bool
}

// SomeRowKey wraps k as a present key.
func SomeRowKey(k RowKey) NullRowKey {
	return NullRowKey{Key: k, Valid: true}
}

// MarshalJSON renders the key, or null when absent.
func (n NullRowKey) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(int(n.Key))
}

// InputRow is one node of a nested input hierarchy, before materialization.
// A nil Children slice means the row declares no children at all.
type InputRow struct {
	RowKey     *RowKey
	Values     map[string]any
	Children   []InputRow
	Attributes InputAttributes
}

// InputAttributes carries the optional "_attributes" block of an input row.
type InputAttributes struct {
	Expanded bool `mapstructure:"expanded"`
	Disabled bool `mapstructure:"disabled"`
}

// Row is a materialized grid row.
type Row struct {
	Key        RowKey
	Values     *reactive.Record
	Children   []*Row
	Attributes Attributes

	leaf *reactive.Value[bool]
}

// Attributes holds hidden per-row state.
type Attributes struct {
	Disabled bool
	Tree     *TreeAttributes
}

// NewRow creates a row whose values are tracked on ctx. A nil ctx creates a
// plain row, as used in lazy mode.
func NewRow(ctx *reactive.Context, key RowKey, values map[string]any) *Row {
	var rec *reactive.Record
	if ctx == nil {
		rec = reactive.Plain(values)
	} else {
		rec = ctx.Observable(values)
	}
	return &Row{
		Key:    key,
		Values: rec,
		leaf:   reactive.NewValue(ctx, true),
	}
}

// Value returns the cell value of column name.
func (r *Row) Value(name string) any {
	return r.Values.Get(name)
}

// SetValue writes the cell value of column name.
func (r *Row) SetValue(name string, v any) {
	r.Values.Set(name, v)
}

// Leaf reports whether the row has no children.
func (r *Row) Leaf() bool {
	return r.leaf.Get()
}

// SetLeaf updates the leaf flag.
func (r *Row) SetLeaf(leaf bool) {
	r.leaf.Set(leaf)
}

// Tree returns the tree attributes, or nil for flat grids.
func (r *Row) Tree() *TreeAttributes {
	return r.Attributes.Tree
}

// ChildIndex returns the position of key in Children, or -1.
func (r *Row) ChildIndex(key RowKey) int {
	for i, c := range r.Children {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// TreeAttributes is the tree linkage of a row, backed by a reactive record so
// readers of hidden/expanded are re-run on expand and collapse.
type TreeAttributes struct {
	rec *reactive.Record
}

// NewTreeAttributes creates tree attributes tracked on ctx (plain when nil).
func NewTreeAttributes(ctx *reactive.Context, parent NullRowKey, childRowKeys []RowKey, hidden, expanded bool) *TreeAttributes {
	keys := make([]RowKey, len(childRowKeys))
	copy(keys, childRowKeys)

	initial := map[string]any{
		AttrParentRowKey: parent,
		AttrChildRowKeys: keys,
		AttrHidden:       hidden,
		AttrExpanded:     expanded,
	}
	if ctx == nil {
		return &TreeAttributes{rec: reactive.Plain(initial)}
	}
	return &TreeAttributes{rec: ctx.Observable(initial)}
}

// Reactive reports whether the attributes are tracked.
func (t *TreeAttributes) Reactive() bool {
	return t.rec.Reactive()
}

// ParentRowKey returns the parent key; absent for root rows.
func (t *TreeAttributes) ParentRowKey() NullRowKey {
	v, _ := t.rec.Get(AttrParentRowKey).(NullRowKey)
	return v
}

// SetParentRowKey relinks the row to a new parent.
func (t *TreeAttributes) SetParentRowKey(k NullRowKey) {
	t.rec.Set(AttrParentRowKey, k)
}

// ChildRowKeys returns a copy of the ordered child keys.
func (t *TreeAttributes) ChildRowKeys() []RowKey {
	keys := t.childKeys()
	out := make([]RowKey, len(keys))
	copy(out, keys)
	return out
}

// HasChild reports whether key is already linked as a child.
func (t *TreeAttributes) HasChild(key RowKey) bool {
	for _, k := range t.childKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// InsertChild links key at offset; an out-of-range offset appends.
// Returns false when key was already linked.
func (t *TreeAttributes) InsertChild(key RowKey, offset int) bool {
	if t.HasChild(key) {
		return false
	}
	keys := t.childKeys()
	if offset < 0 || offset > len(keys) {
		offset = len(keys)
	}
	next := make([]RowKey, 0, len(keys)+1)
	next = append(next, keys[:offset]...)
	next = append(next, key)
	next = append(next, keys[offset:]...)
	t.rec.Set(AttrChildRowKeys, next)
	return true
}

// AppendChild links key at the end. Returns false when already linked.
func (t *TreeAttributes) AppendChild(key RowKey) bool {
	return t.InsertChild(key, -1)
}

// RemoveChild unlinks key. Returns false when it was not linked.
func (t *TreeAttributes) RemoveChild(key RowKey) bool {
	keys := t.childKeys()
	for i, k := range keys {
		if k == key {
			next := make([]RowKey, 0, len(keys)-1)
			next = append(next, keys[:i]...)
			next = append(next, keys[i+1:]...)
			t.rec.Set(AttrChildRowKeys, next)
			return true
		}
	}
	return false
}

// Hidden reports whether an ancestor is collapsed or hidden.
func (t *TreeAttributes) Hidden() bool {
	v, _ := t.rec.Get(AttrHidden).(bool)
	return v
}

// SetHidden updates the hidden flag.
func (t *TreeAttributes) SetHidden(hidden bool) {
	t.rec.Set(AttrHidden, hidden)
}

// Expanded reports whether the row shows its children.
func (t *TreeAttributes) Expanded() bool {
	v, _ := t.rec.Get(AttrExpanded).(bool)
	return v
}

// SetExpanded updates the expanded flag.
func (t *TreeAttributes) SetExpanded(expanded bool) {
	t.rec.Set(AttrExpanded, expanded)
}

func (t *TreeAttributes) childKeys() []RowKey {
	keys, _ := t.rec.Get(AttrChildRowKeys).([]RowKey)
	return keys
}
