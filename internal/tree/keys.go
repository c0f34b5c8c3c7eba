package tree

import "github.com/aretw0/lattice/pkg/domain"

// KeyCounter synthesizes row keys for rows that omit one. Each grid instance
// owns exactly one counter. The zero value is ready to use.
type KeyCounter struct {
	next     domain.RowKey
	disposed bool
}

// Next returns the next unused key.
func (c *KeyCounter) Next() domain.RowKey {
	c.disposed = false
	k := c.next
	c.next++
	return k
}

// Observe records an explicit key so that synthesized keys never collide with it.
func (c *KeyCounter) Observe(k domain.RowKey) {
	if k >= c.next {
		c.next = k + 1
	}
}

// Peek returns the key Next would return, without consuming it.
func (c *KeyCounter) Peek() domain.RowKey {
	return c.next
}

// Reset restarts the sequence. Called when a lazily observed data set is
// reloaded from scratch.
func (c *KeyCounter) Reset() {
	c.next = 0
}

// Dispose releases the sequence on grid teardown.
func (c *KeyCounter) Dispose() {
	c.next = 0
	c.disposed = true
}

// Disposed reports whether Dispose was the last lifecycle call.
func (c *KeyCounter) Disposed() bool {
	return c.disposed
}

// KeySet records the row keys issued to one data set.
type KeySet map[domain.RowKey]struct{}

// Has reports whether k is in the set. A nil set is empty.
func (s KeySet) Has(k domain.RowKey) bool {
	_, ok := s[k]
	return ok
}

// Add puts k in the set.
func (s KeySet) Add(k domain.RowKey) {
	s[k] = struct{}{}
}

// ExplicitKey returns the key in carries itself, from the key column or
// RowKey, if any.
func ExplicitKey(in domain.InputRow, opts Options) (domain.RowKey, bool) {
	if opts.KeyColumnName != "" {
		if k, ok := toRowKey(in.Values[opts.KeyColumnName]); ok {
			return k, true
		}
	}
	if in.RowKey != nil {
		return *in.RowKey, true
	}
	return 0, false
}

// ExplicitKeys lists the explicit keys of data and all its descendants in
// document order.
func ExplicitKeys(data []domain.InputRow, opts Options) []domain.RowKey {
	var out []domain.RowKey
	stack := make([]*domain.InputRow, 0, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		stack = append(stack, &data[i])
	}
	for len(stack) > 0 {
		in := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if k, ok := ExplicitKey(*in, opts); ok {
			out = append(out, k)
		}
		for i := len(in.Children) - 1; i >= 0; i-- {
			stack = append(stack, &in.Children[i])
		}
	}
	return out
}
