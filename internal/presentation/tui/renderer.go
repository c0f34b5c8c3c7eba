package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// Grid is the part of a grid the table renderer reads.
type Grid interface {
	Columns() []*domain.Column
	Rows(visibleOnly bool) []lattice.RowState
	Focus() lattice.FocusState
	Selection() *domain.SelectionRange
	TreeColumn() string
}

// NewRenderer returns a function that renders markdown using glamour.
// A positive width wraps output at that many columns.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Markdown builds a table of the visible rows. A ">" marks the focused row,
// the focused cell is bracketed and bold, and selected cells are italic.
func Markdown(g Grid) string {
	cols := g.Columns()
	rows := g.Rows(true)
	focus := g.Focus()
	treeColumn := g.TreeColumn()

	var sel *domain.SelectionRange
	if r := g.Selection(); r != nil {
		n := r.Normalized()
		sel = &n
	}

	headers := 0
	for _, c := range cols {
		if c.RowHeader() {
			headers++
		}
	}

	var b strings.Builder
	b.WriteString("| |")
	for _, c := range cols {
		b.WriteString(" " + headerLabel(c) + " |")
	}
	b.WriteString("\n|---|")
	for range cols {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for i, row := range rows {
		focusedRow := focus.RowKey.Valid && focus.RowIndex == i
		if focusedRow {
			b.WriteString("| > |")
		} else {
			b.WriteString("| |")
		}
		for j, c := range cols {
			var text string
			if c.RowHeader() {
				text = rowHeaderCell(c.Name, i)
			} else {
				text = escape(fmt.Sprint(valueOr(row.Values[c.Name])))
				if c.Name == treeColumn {
					text = treePrefix(row) + text
				}
				switch {
				case focusedRow && focus.ColumnName == c.Name:
					if focus.EditingAddress != nil {
						text += " ✎"
					}
					text = "**[" + text + "]**"
				case sel != nil && text != "" && sel.Contains(i, j-headers):
					text = "_" + text + "_"
				}
			}
			b.WriteString(" " + text + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func headerLabel(c *domain.Column) string {
	switch c.Name {
	case domain.RowHeaderNumber:
		return "#"
	case domain.RowHeaderCheckbox:
		return "✓"
	case domain.RowHeaderDraggable:
		return ""
	}
	if c.Header != "" {
		return escape(c.Header)
	}
	return escape(c.Name)
}

func rowHeaderCell(name string, index int) string {
	switch name {
	case domain.RowHeaderNumber:
		return strconv.Itoa(index + 1)
	case domain.RowHeaderCheckbox:
		return "[ ]"
	}
	return "::"
}

// treePrefix indents by depth with non-breaking spaces, which markdown keeps.
func treePrefix(row lattice.RowState) string {
	indent := strings.Repeat("\u00a0\u00a0", max(row.Depth-1, 0))
	switch {
	case row.Leaf:
		return indent + "· "
	case row.Expanded:
		return indent + "▾ "
	}
	return indent + "▸ "
}

func valueOr(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
