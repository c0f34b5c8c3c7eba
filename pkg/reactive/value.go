package reactive

// Value is a single typed tracked field.
type Value[T any] struct {
	ctx *Context
	f   *field
	v   T
}

// NewValue creates a tracked value. A nil ctx yields a plain value.
func NewValue[T any](ctx *Context, v T) *Value[T] {
	return &Value[T]{ctx: ctx, f: newField(), v: v}
}

// Get returns the value, recording a read inside a computation.
func (v *Value[T]) Get() T {
	v.f.track(v.ctx)
	return v.v
}

// Peek returns the value without recording a read.
func (v *Value[T]) Peek() T {
	return v.v
}

// Set stores x and re-runs dependents unless x equals the current value.
func (v *Value[T]) Set(x T) {
	if same(any(v.v), any(x)) {
		return
	}
	v.v = x
	if v.ctx == nil {
		return
	}
	v.f.trigger(v.ctx)
}
