package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"  _       _   _   _", "#818cf8"},
	{" | | __ _| |_| |_(_) ___ ___", "#a78bfa"},
	{" | |/ _` | __| __| |/ __/ _ \\", "#c084fc"},
	{" | | (_| | |_| |_| | (_|  __/", "#e879f9"},
	{" |_|\\__,_|\\__|\\__|_|\\___\\___|", "#f472b6"},
}

// PrintBanner writes the ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// Status summarizes focus, selection and row counts on one line.
func Status(st lattice.State) string {
	parts := make([]string, 0, 3)

	f := st.Focus
	switch {
	case !f.RowKey.Valid:
		parts = append(parts, "no focus")
	case f.RowIndex < 0:
		parts = append(parts, "focus hidden")
	case f.EditingAddress != nil:
		parts = append(parts, fmt.Sprintf("editing row %d %s", f.RowIndex+1, f.ColumnName))
	default:
		parts = append(parts, fmt.Sprintf("row %d %s", f.RowIndex+1, f.ColumnName))
	}

	if r := st.Selection; r != nil {
		n := r.Normalized()
		parts = append(parts, fmt.Sprintf("selected rows %d-%d cols %d-%d",
			n.Row[0]+1, n.Row[1]+1, n.Column[0]+1, n.Column[1]+1))
	}

	parts = append(parts, fmt.Sprintf("%d/%d rows", st.ViewCount, st.RowCount))
	return strings.Join(parts, " | ")
}

// PrintStatus writes the colored status line to w.
func PrintStatus(w io.Writer, st lattice.State) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w, termenv.String(Status(st)).Foreground(p.Color("#a78bfa")))
}
