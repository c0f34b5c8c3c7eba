/*
Package lattice is the state core of a spreadsheet-like grid: a reactive
store, a tree materializer for hierarchical rows and a keyboard command
dispatcher.

Rendering, layout and the editor widgets live outside this package. They feed
it key strokes or commands and observe the store through reactive
computations, which re-run synchronously whenever a field they read changes.

# Key Entities

  - Grid: one grid instance. Owns its store, dispatcher, keymap and row-key counter.
  - Config: columns, row headers, page size and tree options.
  - Definition: a Config plus keymap overrides and inline rows, as read from YAML or JSON.
  - domain.Action: a key stroke resolved to move, edit, select or remove.

# Usage

	grid, err := lattice.New(lattice.Config{
		Columns: []domain.Column{
			{Name: "name", Editor: &domain.EditorSpec{Type: "text"}},
			{Name: "size"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer grid.Destroy()

	grid.Load(rows)
	grid.FocusCell(grid.Rows(true)[0].RowKey, "name")
	grid.HandleKey("shift-down")

# Surfaces

The lattice command loads a definition file and flattens, replays or edits
it in the terminal. pkg/adapters/http and pkg/adapters/mcp expose a single
grid over HTTP (with an SSE state stream) and as MCP tools.

A Grid is not safe for concurrent use. Callers sharing one across goroutines
serialize access themselves.
*/
package lattice
