package reactive

import (
	"reflect"
	"sort"
)

// Record is a keyed set of tracked fields. Key order is insertion order.
type Record struct {
	ctx    *Context
	keys   []string
	values map[string]any
	fields map[string]*field
}

// Observable returns a Record seeded from initial; every own key becomes a
// tracked field. Keys are ordered alphabetically since map order is random;
// use Set on an empty record to control order.
func (c *Context) Observable(initial map[string]any) *Record {
	r := &Record{
		ctx:    c,
		values: make(map[string]any, len(initial)),
		fields: make(map[string]*field, len(initial)),
	}
	keys := make([]string, 0, len(initial))
	for k := range initial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.keys = append(r.keys, k)
		r.values[k] = initial[k]
		r.fields[k] = newField()
	}
	return r
}

// Plain returns a Record that neither tracks nor notifies.
func Plain(initial map[string]any) *Record {
	return (*Context)(nil).Observable(initial)
}

// Reactive reports whether the record is bound to a tracking context.
func (r *Record) Reactive() bool {
	return r.ctx != nil
}

// Get returns the value stored under key, recording a read when called from
// inside a computation. Unknown keys return nil and are tracked too, so a
// later Set on that key re-runs the reader.
func (r *Record) Get(key string) any {
	f := r.field(key)
	f.track(r.ctx)
	return r.values[key]
}

// Has reports whether key exists on the record.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Set stores v under key and synchronously re-runs dependents.
// An unknown key is added as a new tracked field.
func (r *Record) Set(key string, v any) {
	old, exists := r.values[key]
	if exists && same(old, v) {
		return
	}
	if !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
	if r.ctx == nil {
		return
	}
	r.field(key).trigger(r.ctx)
}

// Keys returns the record keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Snapshot copies the current values without tracking.
func (r *Record) Snapshot() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *Record) field(key string) *field {
	f, ok := r.fields[key]
	if !ok {
		f = newField()
		r.fields[key] = f
	}
	return f
}

// same reports equality for comparable values. Uncomparable values (slices,
// maps) are never equal, so writing them always notifies.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
