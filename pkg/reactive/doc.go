/*
Package reactive provides the fine-grained dependency tracking used by the grid store.

A Context owns the tracking state for one store. Fields live either in a keyed
Record (row values, tree attributes) or in a typed Value (focus, selection).
Reading a field while a Computation runs records an edge from the computation
to that field; writing the field re-runs every dependent computation
synchronously, in registration order, before the write returns.

# Usage

	ctx := reactive.NewContext()
	focus := reactive.NewValue(ctx, "")
	label := ""

	c := ctx.Observe(func() {
		label = "focused: " + focus.Get()
	})
	defer c.Stop()

	focus.Set("price") // label is updated before Set returns

# Plain Mode

Records and values created with a nil Context never track reads nor notify on
writes. The tree materializer uses them for lazily observed data sets.

# Rules

  - A computation must never write a field it also reads. A computation that
    is already running is not re-entered by its own cascade.
  - Writing a value equal to the current one is a no-op (for comparable values).
  - Writing an unknown key on a Record adds it as a new tracked field.
  - Nothing here is safe for concurrent use; the store is single-threaded.
*/
package reactive
