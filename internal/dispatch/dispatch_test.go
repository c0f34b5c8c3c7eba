package dispatch_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/lattice/internal/dispatch"
	"github.com/aretw0/lattice/internal/store"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGrid builds a flat rows x cols grid. Columns are named c0..cN and every
// cell holds "rR-cC".
func newGrid(t *testing.T, rows, cols int, rowHeaders ...string) *store.Store {
	t.Helper()
	columns := make([]domain.Column, cols)
	for i := range columns {
		columns[i] = domain.Column{Name: fmt.Sprintf("c%d", i), Editor: &domain.EditorSpec{Type: "text"}}
	}
	s, err := store.New(store.Config{Columns: columns, RowHeaders: rowHeaders, BodyRows: 2})
	require.NoError(t, err)

	data := make([]domain.InputRow, rows)
	for r := range data {
		values := map[string]any{}
		for c := 0; c < cols; c++ {
			values[fmt.Sprintf("c%d", c)] = fmt.Sprintf("r%d-c%d", r, c)
		}
		data[r] = domain.InputRow{Values: values}
	}
	s.Load(data)
	return s
}

func focusAt(d *dispatch.Dispatcher, row int, column string) {
	r, _ := d.Store().ViewRow(row)
	d.SetFocusInfo(domain.SomeRowKey(r.Key), column, true)
}

func TestMoveFocus_Clamps(t *testing.T) {
	const rows, cols = 3, 4
	s := newGrid(t, rows, cols)
	d := dispatch.New(s)
	focusAt(d, 0, "c0")

	for i := 0; i < cols+3; i++ {
		d.MoveFocus(domain.CommandRight)
		assert.LessOrEqual(t, s.Focus.TotalColumnIndex.Get(), cols-1)
	}
	assert.Equal(t, "c3", s.Focus.ColumnName.Get())

	for i := 0; i < rows+3; i++ {
		d.MoveFocus(domain.CommandDown)
		assert.LessOrEqual(t, s.Focus.RowIndex.Get(), rows-1)
	}
	assert.Equal(t, rows-1, s.Focus.RowIndex.Get())
	assert.True(t, s.Focus.Navigating.Get())

	d.MoveFocus(domain.CommandPageUp)
	d.MoveFocus(domain.CommandPageUp)
	assert.Equal(t, 0, s.Focus.RowIndex.Get())

	d.MoveFocus(domain.CommandFirstColumn)
	d.MoveFocus(domain.CommandLeft)
	assert.Equal(t, 0, s.Focus.TotalColumnIndex.Get())
}

func TestMoveFocus_Commands(t *testing.T) {
	s := newGrid(t, 5, 3)
	d := dispatch.New(s)

	tests := []struct {
		name     string
		fromRow  int
		fromCol  string
		cmd      domain.Command
		wantRow  int
		wantName string
	}{
		{"page down", 0, "c1", domain.CommandPageDown, 2, "c1"},
		{"last cell", 1, "c0", domain.CommandLastCell, 4, "c2"},
		{"first cell", 3, "c2", domain.CommandFirstCell, 0, "c0"},
		{"last column", 2, "c0", domain.CommandLastColumn, 2, "c2"},
		{"next cell wraps onto next row", 1, "c2", domain.CommandNextCell, 2, "c0"},
		{"prev cell wraps onto previous row", 1, "c0", domain.CommandPrevCell, 0, "c2"},
		{"next cell stops at last cell", 4, "c2", domain.CommandNextCell, 4, "c2"},
		{"prev cell stops at first cell", 0, "c0", domain.CommandPrevCell, 0, "c0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			focusAt(d, tt.fromRow, tt.fromCol)
			d.MoveFocus(tt.cmd)
			assert.Equal(t, tt.wantRow, s.Focus.RowIndex.Get())
			assert.Equal(t, tt.wantName, s.Focus.ColumnName.Get())
		})
	}
}

func TestMoveFocus_NoFocusIsNoop(t *testing.T) {
	s := newGrid(t, 2, 2)
	d := dispatch.New(s)

	d.MoveFocus(domain.CommandDown)
	assert.False(t, s.Focus.RowKey.Get().Valid)
	assert.False(t, s.Focus.Navigating.Get())

	// A focus whose column is unknown does not resolve either.
	r, _ := s.ViewRow(0)
	d.SetFocusInfo(domain.SomeRowKey(r.Key), "missing", false)
	d.MoveFocus(domain.CommandRight)
	assert.Equal(t, "missing", s.Focus.ColumnName.Get())
}

func TestMoveFocus_RowHeaderExclusion(t *testing.T) {
	s := newGrid(t, 3, 2, domain.RowHeaderNumber, domain.RowHeaderCheckbox)

	var rejected []*domain.FocusEvent
	d := dispatch.New(s, dispatch.WithHooks(domain.LifecycleHooks{
		OnMoveRejected: func(e *domain.FocusEvent) { rejected = append(rejected, e) },
	}))
	focusAt(d, 1, "c0")
	before, _ := s.Focus.Address()

	d.MoveFocus(domain.CommandLeft)
	after, ok := s.Focus.Address()
	require.True(t, ok)
	assert.Equal(t, before, after)
	require.Len(t, rejected, 1)
	assert.Equal(t, domain.RowHeaderCheckbox, rejected[0].ColumnName)

	// Bounded commands land on the first data column instead.
	focusAt(d, 2, "c1")
	d.MoveFocus(domain.CommandFirstCell)
	assert.Equal(t, "c0", s.Focus.ColumnName.Get())
	assert.Equal(t, 2, s.Focus.TotalColumnIndex.Get())
}

func TestEditFocus_Gate(t *testing.T) {
	s, err := store.New(store.Config{Columns: []domain.Column{
		{Name: "title", Editor: &domain.EditorSpec{Type: "text"}},
		{Name: "id"},
	}})
	require.NoError(t, err)
	s.Load([]domain.InputRow{
		{Values: map[string]any{"title": "a", "id": 1}},
		{Values: map[string]any{"title": "b", "id": 2}, Attributes: domain.InputAttributes{Disabled: true}},
	})

	var started []*domain.FocusEvent
	d := dispatch.New(s, dispatch.WithHooks(domain.LifecycleHooks{
		OnEditStart: func(e *domain.FocusEvent) { started = append(started, e) },
	}))

	// 1. No editor: editing stays off.
	focusAt(d, 0, "id")
	d.EditFocus(domain.CommandCurrentCell)
	assert.Nil(t, s.Focus.EditingAddress.Get())
	assert.True(t, s.Focus.Navigating.Get())

	// 2. Editor: editing address is exactly the focused cell.
	focusAt(d, 0, "title")
	d.EditFocus(domain.CommandDown)
	assert.Nil(t, s.Focus.EditingAddress.Get())

	d.EditFocus(domain.CommandCurrentCell)
	row, _ := s.ViewRow(0)
	require.NotNil(t, s.Focus.EditingAddress.Get())
	assert.Equal(t, domain.CellAddress{RowKey: row.Key, ColumnName: "title"}, *s.Focus.EditingAddress.Get())
	assert.False(t, s.Focus.Navigating.Get())
	require.Len(t, started, 1)

	// 3. Any focus change leaves edit mode.
	d.MoveFocus(domain.CommandDown)
	assert.Nil(t, s.Focus.EditingAddress.Get())
	assert.True(t, s.Focus.Navigating.Get())

	// 4. Disabled rows do not enter edit mode.
	d.EditFocus(domain.CommandCurrentCell)
	assert.Nil(t, s.Focus.EditingAddress.Get())

	// 5. No focus at all.
	s.Focus.Clear()
	d.EditFocus(domain.CommandCurrentCell)
	assert.Nil(t, s.Focus.EditingAddress.Get())
}

func TestChangeSelection_AnchorPreserved(t *testing.T) {
	const rows, cols = 6, 5
	s := newGrid(t, rows, cols)
	d := dispatch.New(s)

	focusAt(d, 2, "c2")
	d.ChangeSelection(domain.CommandDown)
	d.ChangeSelection(domain.CommandDown)

	r, ok := s.Selection.Range()
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 4}, r.Row)
	assert.Equal(t, [2]int{2, 2}, r.Column)

	d.ChangeSelection(domain.CommandLeft)
	d.ChangeSelection(domain.CommandLeft)
	d.ChangeSelection(domain.CommandLeft)
	r, _ = s.Selection.Range()
	assert.Equal(t, [2]int{2, 0}, r.Column, "end edge moves, anchor stays")

	d.ChangeSelection(domain.CommandAll)
	r, _ = s.Selection.Range()
	assert.Equal(t, [2]int{0, rows - 1}, r.Row)
	assert.Equal(t, [2]int{0, cols - 1}, r.Column)
}

func TestChangeSelection_DataColumnCoordinates(t *testing.T) {
	s := newGrid(t, 4, 3, domain.RowHeaderNumber)

	var events []*domain.SelectionEvent
	d := dispatch.New(s, dispatch.WithHooks(domain.LifecycleHooks{
		OnSelectionChange: func(e *domain.SelectionEvent) { events = append(events, e) },
	}))

	focusAt(d, 1, "c1")
	require.Equal(t, 2, s.Focus.TotalColumnIndex.Get())

	d.ChangeSelection(domain.CommandRight)
	r, _ := s.Selection.Range()
	assert.Equal(t, [2]int{1, 2}, r.Column)

	d.ChangeSelection(domain.CommandRight)
	r, _ = s.Selection.Range()
	assert.Equal(t, [2]int{1, 2}, r.Column, "clamped to the last data column")
	assert.Len(t, events, 1, "an unchanged range is not reported")

	d.ChangeSelection(domain.CommandAll)
	r, _ = s.Selection.Range()
	assert.Equal(t, [2]int{0, 2}, r.Column)
	assert.Equal(t, [2]int{0, 3}, r.Row)
}

func TestChangeSelection_SeedIsReported(t *testing.T) {
	s := newGrid(t, 3, 2)

	var events []*domain.SelectionEvent
	d := dispatch.New(s, dispatch.WithHooks(domain.LifecycleHooks{
		OnSelectionChange: func(e *domain.SelectionEvent) { events = append(events, e) },
	}))
	focusAt(d, 0, "c0")

	// 1. Extending upward from the first row changes nothing but the seed
	d.ChangeSelection(domain.CommandUp)
	r, ok := s.Selection.Range()
	require.True(t, ok)
	assert.Equal(t, domain.SelectionRange{Row: [2]int{0, 0}, Column: [2]int{0, 0}}, r)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Range)
	assert.Equal(t, r, *events[0].Range)

	// 2. A real extension reports once more
	d.ChangeSelection(domain.CommandDown)
	assert.Len(t, events, 2)
	assert.Equal(t, [2]int{0, 1}, events[1].Range.Row)
}

func TestChangeSelection_NoFocusIsNoop(t *testing.T) {
	s := newGrid(t, 2, 2)
	d := dispatch.New(s)
	d.ChangeSelection(domain.CommandAll)
	assert.Nil(t, s.Selection.InputRange.Get())
}

func TestRemoveContent_Scope(t *testing.T) {
	s, err := store.New(store.Config{Columns: []domain.Column{
		{Name: "note", Editor: &domain.EditorSpec{Type: "text"}},
		{Name: "id"},
	}})
	require.NoError(t, err)
	s.Load([]domain.InputRow{
		{Values: map[string]any{"note": "a", "id": 1}},
		{Values: map[string]any{"note": "b", "id": 2}},
		{Values: map[string]any{"note": "c", "id": 3}},
	})

	var removed *domain.RemoveEvent
	d := dispatch.New(s, dispatch.WithHooks(domain.LifecycleHooks{
		OnContentRemove: func(e *domain.RemoveEvent) { removed = e },
	}))
	d.ChangeSelectionRange(&domain.SelectionRange{Row: [2]int{1, 0}, Column: [2]int{0, 1}})

	d.RemoveContent()

	raw := s.Data.RawData()
	assert.Equal(t, "", raw[0].Value("note"))
	assert.Equal(t, "", raw[1].Value("note"))
	assert.Equal(t, "c", raw[2].Value("note"))
	assert.Equal(t, 1, raw[0].Value("id"))
	assert.Equal(t, 2, raw[1].Value("id"))

	require.NotNil(t, removed)
	assert.Equal(t, []string{"note"}, removed.Columns)
	assert.Equal(t, 2, removed.Cleared)
	assert.Equal(t, [2]int{0, 1}, removed.Range.Row)
}

func TestRemoveContent_FocusedCell(t *testing.T) {
	s := newGrid(t, 3, 2, domain.RowHeaderNumber)
	d := dispatch.New(s)

	d.RemoveContent()
	assert.Equal(t, "r0-c0", s.Data.RawData()[0].Value("c0"), "nothing to remove without focus")

	focusAt(d, 2, "c1")
	d.RemoveContent()
	assert.Equal(t, "", s.Data.RawData()[2].Value("c1"))
	assert.Equal(t, "r2-c0", s.Data.RawData()[2].Value("c0"))
}

func TestRemoveRange(t *testing.T) {
	s := newGrid(t, 3, 2)
	d := dispatch.New(s)

	_, ok := d.RemoveRange()
	assert.False(t, ok)

	d.ChangeSelectionRange(&domain.SelectionRange{Row: [2]int{1, 9}, Column: [2]int{0, 9}})
	rng, ok := d.RemoveRange()
	require.True(t, ok)
	assert.Equal(t, [2]int{1, 2}, rng.Row)
	assert.Equal(t, [2]int{0, 1}, rng.Column)

	d.ChangeSelectionRange(&domain.SelectionRange{Row: [2]int{7, 9}, Column: [2]int{0, 0}})
	_, ok = d.RemoveRange()
	assert.False(t, ok)
}

func TestChangeFocus_Veto(t *testing.T) {
	s := newGrid(t, 2, 2)
	var seen []*domain.FocusEvent
	d := dispatch.New(s, dispatch.WithHooks(domain.LifecycleHooks{
		OnFocusChange: func(e *domain.FocusEvent) {
			seen = append(seen, e)
			if e.ColumnName == "c1" {
				e.Stop()
			}
		},
	}))

	focusAt(d, 0, "c0")
	d.MoveFocus(domain.CommandRight)
	assert.Equal(t, "c0", s.Focus.ColumnName.Get())
	require.Len(t, seen, 2)
	assert.Equal(t, "c0", seen[1].PrevColumnName)

	// Same cell is not a change.
	assert.False(t, d.ChangeFocus(s.Focus.RowKey.Get(), "c0"))
	assert.Len(t, seen, 2)

	// A vetoed move leaves the navigating flag alone.
	d.SetFocusInfo(s.Focus.RowKey.Get(), "c0", false)
	d.MoveFocus(domain.CommandRight)
	assert.Equal(t, "c0", s.Focus.ColumnName.Get())
	assert.False(t, s.Focus.Navigating.Get())

	d.MoveFocus(domain.CommandDown)
	assert.Equal(t, 1, s.Focus.RowIndex.Get())
	assert.True(t, s.Focus.Navigating.Get())
}

func TestSetFocusInfo_Unvalidated(t *testing.T) {
	s := newGrid(t, 2, 2)
	d := dispatch.New(s)

	d.SetFocusInfo(domain.SomeRowKey(99), "nowhere", false)
	assert.Equal(t, domain.SomeRowKey(99), s.Focus.RowKey.Get())
	assert.Equal(t, -1, s.Focus.RowIndex.Get())

	d.SetFocusInfo(domain.NullRowKey{}, "", false)
	_, ok := s.Focus.Address()
	assert.False(t, ok)
}

func TestDispatch(t *testing.T) {
	s := newGrid(t, 4, 2)
	var actions []string
	d := dispatch.New(s, dispatch.WithHooks(domain.LifecycleHooks{
		OnDispatch: func(e *domain.ActionEvent) { actions = append(actions, e.Action.String()) },
	}))
	focusAt(d, 0, "c0")

	require.NoError(t, d.Dispatch(domain.Action{Type: domain.ActionSelect, Command: domain.CommandDown}))
	require.NotNil(t, s.Selection.InputRange.Get())

	require.NoError(t, d.Dispatch(domain.Action{Type: domain.ActionMove, Command: domain.CommandDown}))
	assert.Nil(t, s.Selection.InputRange.Get(), "moving drops the selection")
	assert.Equal(t, 1, s.Focus.RowIndex.Get())

	require.NoError(t, d.Dispatch(domain.Action{Type: domain.ActionEdit, Command: domain.CommandCurrentCell}))
	assert.NotNil(t, s.Focus.EditingAddress.Get())

	require.NoError(t, d.Dispatch(domain.Action{Type: domain.ActionRemove}))
	assert.Equal(t, "", s.Data.RawData()[1].Value("c0"))

	err := d.Dispatch(domain.Action{Type: "paste"})
	assert.ErrorIs(t, err, domain.ErrUnknownActionType)
	assert.Equal(t, []string{"select:down", "move:down", "edit:currentCell", "remove", "paste"}, actions)
}

func TestResolverOutputIsClamped(t *testing.T) {
	s := newGrid(t, 3, 3)
	wild := ports.CellResolverFunc(func(domain.Command, int, int, ports.Bounds) (int, int) {
		return 100, -7
	})
	d := dispatch.New(s, dispatch.WithResolver(wild))
	focusAt(d, 1, "c1")

	d.MoveFocus(domain.CommandDown)
	assert.Equal(t, 2, s.Focus.RowIndex.Get())
	assert.Equal(t, 0, s.Focus.TotalColumnIndex.Get())
}

func TestMoveFocus_TreeViewRows(t *testing.T) {
	s, err := store.New(store.Config{
		Columns: []domain.Column{{Name: "name"}},
		Tree:    &store.TreeConfig{Column: "name"},
	})
	require.NoError(t, err)
	s.Load([]domain.InputRow{
		{Values: map[string]any{"name": "closed"}, Children: []domain.InputRow{{Values: map[string]any{"name": "inner"}}}},
		{Values: map[string]any{"name": "next"}},
	})
	d := dispatch.New(s)
	focusAt(d, 0, "name")

	d.MoveFocus(domain.CommandDown)
	row, ok := s.FindRow(s.Focus.RowKey.Get().Key)
	require.True(t, ok)
	assert.Equal(t, "next", row.Value("name"), "hidden rows are skipped")
}

func TestClampResolver(t *testing.T) {
	b := ports.Bounds{RowCount: 4, ColumnCount: 5, FirstColumn: 1, PageSize: 3}
	r := dispatch.ClampResolver{}

	tests := []struct {
		cmd      domain.Command
		row, col int
		wantRow  int
		wantCol  int
	}{
		{domain.CommandUp, 0, 2, 0, 2},
		{domain.CommandDown, 3, 2, 3, 2},
		{domain.CommandLeft, 1, 1, 1, 0},
		{domain.CommandRight, 1, 4, 1, 4},
		{domain.CommandPageDown, 2, 2, 3, 2},
		{domain.CommandPageUp, 2, 2, 0, 2},
		{domain.CommandFirstColumn, 2, 4, 2, 1},
		{domain.CommandLastColumn, 2, 1, 2, 4},
		{domain.CommandFirstCell, 3, 3, 0, 1},
		{domain.CommandLastCell, 0, 1, 3, 4},
		{domain.CommandPrevCell, 2, 1, 1, 4},
		{domain.CommandNextCell, 3, 4, 3, 4},
		{domain.CommandCurrentCell, 2, 2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.String(), func(t *testing.T) {
			gotRow, gotCol := r.NextCellIndex(tt.cmd, tt.row, tt.col, b)
			assert.Equal(t, tt.wantRow, gotRow)
			assert.Equal(t, tt.wantCol, gotCol)
		})
	}
}
