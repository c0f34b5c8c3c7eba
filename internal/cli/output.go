package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"golang.org/x/term"
)

// terminalWidth reports the width of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, true
	}
	return width, true
}

// newMarkdownWriter returns a function printing markdown to w, styled by
// glamour on terminals and raw otherwise.
func newMarkdownWriter(w io.Writer) func(string) error {
	width, tty := terminalWidth(w)
	if !tty {
		return func(md string) error {
			_, err := io.WriteString(w, md)
			return err
		}
	}
	render := tui.NewRenderer(width)
	return func(md string) error {
		out, err := render(md)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Flatten prints the materialized rows in document order.
func Flatten(w io.Writer, g *lattice.Grid, jsonMode bool) error {
	rows := g.Rows(false)
	if jsonMode {
		return writeJSON(w, rows)
	}

	label := captionColumn(g)

	var b strings.Builder
	fmt.Fprintf(&b, "| key | parent | depth | leaf | expanded | hidden | %s |\n", label)
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, r := range rows {
		parent := "-"
		if r.Parent.Valid {
			parent = fmt.Sprint(r.Parent.Key)
		}
		value := ""
		if v, ok := r.Values[label]; ok && v != nil {
			value = strings.ReplaceAll(fmt.Sprint(v), "|", "\\|")
		}
		fmt.Fprintf(&b, "| %d | %s | %d | %t | %t | %t | %s |\n",
			r.RowKey, parent, r.Depth, r.Leaf, r.Expanded, r.Hidden, value)
	}
	return newMarkdownWriter(w)(b.String())
}

// Mermaid prints the row tree as a Mermaid flowchart, highlighting the
// focused and selected rows.
func Mermaid(w io.Writer, g *lattice.Grid) error {
	overlay := &graph.Overlay{}
	if f := g.Focus(); f.RowKey.Valid {
		overlay.Focused = f.RowKey
	}
	if sel := g.Selection(); sel != nil {
		n := sel.Normalized()
		visible := g.Rows(true)
		for i := n.Row[0]; i <= n.Row[1] && i < len(visible); i++ {
			if i >= 0 {
				overlay.Selected = append(overlay.Selected, visible[i].RowKey)
			}
		}
	}
	if !overlay.Focused.Valid && len(overlay.Selected) == 0 {
		overlay = nil
	}

	_, err := io.WriteString(w, graph.GenerateMermaid(g.Rows(false), captionColumn(g), overlay))
	return err
}

// captionColumn is the tree column, or the first data column of a flat grid.
func captionColumn(g *lattice.Grid) string {
	if label := g.TreeColumn(); label != "" {
		return label
	}
	for _, c := range g.Columns() {
		if !c.RowHeader() {
			return c.Name
		}
	}
	return ""
}

// PlayResult is the JSON output of Play.
type PlayResult struct {
	Actions []string      `json:"actions"`
	State   lattice.State `json:"state"`
}

// Play replays strokes against g and prints the grid and its state. The
// first unknown stroke aborts the replay.
func Play(w io.Writer, g *lattice.Grid, strokes []string, jsonMode bool) error {
	var actions []string
	for i, stroke := range strokes {
		stroke = strings.TrimSpace(stroke)
		if stroke == "" {
			continue
		}
		a, err := g.HandleKey(stroke)
		if err != nil {
			return fmt.Errorf("stroke %d (%q): %w", i+1, stroke, err)
		}
		actions = append(actions, a.String())
	}

	if jsonMode {
		return writeJSON(w, PlayResult{Actions: actions, State: g.State()})
	}
	if err := newMarkdownWriter(w)(tui.Markdown(g)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, tui.Status(g.State()))
	return err
}
