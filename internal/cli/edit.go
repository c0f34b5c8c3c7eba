package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// editModel feeds terminal key presses to a grid. Strokes are the keymap's
// names as bubbletea spells them ("shift+down", "pgdown", "ctrl+home").
type editModel struct {
	grid    *lattice.Grid
	render  func(string) (string, error)
	message string
	last    string
}

func newEditModel(g *lattice.Grid, render func(string) (string, error)) editModel {
	return editModel{grid: g, render: render}
}

func (m editModel) Init() tea.Cmd { return nil }

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	stroke := key.String()
	switch stroke {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ":
		m.last = "space"
		m.message = m.toggleFocusedRow()
		return m, nil
	}

	m.last = stroke
	a, err := m.grid.HandleKey(stroke)
	if err != nil {
		m.message = err.Error()
		return m, nil
	}
	m.message = a.String()
	return m, nil
}

// toggleFocusedRow expands or collapses the focused tree row.
func (m editModel) toggleFocusedRow() string {
	f := m.grid.Focus()
	rows := m.grid.Rows(true)
	if !f.RowKey.Valid || f.RowIndex < 0 || f.RowIndex >= len(rows) {
		return "nothing focused"
	}
	row := rows[f.RowIndex]
	if row.Leaf {
		return "leaf row"
	}

	var err error
	if row.Expanded {
		err = m.grid.Collapse(row.RowKey, false)
	} else {
		err = m.grid.Expand(row.RowKey, false)
	}
	if err != nil {
		return err.Error()
	}
	if row.Expanded {
		return "collapsed"
	}
	return "expanded"
}

func (m editModel) View() string {
	var b strings.Builder
	table, err := m.render(tui.Markdown(m.grid))
	if err != nil {
		table = err.Error()
	}
	b.WriteString(table)
	b.WriteString("\n")
	b.WriteString(tui.Status(m.grid.State()))
	if m.last != "" {
		fmt.Fprintf(&b, "\n%s → %s", m.last, m.message)
	}
	b.WriteString("\n\nq quit · space expand/collapse\n")
	return b.String()
}

// Edit runs an interactive session on g until the user quits.
func Edit(in io.Reader, out io.Writer, g *lattice.Grid) error {
	FocusFirstCell(g)

	width, _ := terminalWidth(out)
	model := newEditModel(g, tui.NewRenderer(width))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
