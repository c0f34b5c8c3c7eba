package store_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/internal/store"
	"github.com/aretw0/lattice/internal/tree"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treeConfig() store.Config {
	return store.Config{
		RowHeaders: []string{domain.RowHeaderNumber},
		Columns: []domain.Column{
			{Name: "name", Editor: &domain.EditorSpec{Type: "text"}},
			{Name: "size"},
		},
		Tree: &store.TreeConfig{Column: "name"},
	}
}

func node(name string, expanded bool, children ...domain.InputRow) domain.InputRow {
	return domain.InputRow{
		Values:     map[string]any{"name": name},
		Children:   children,
		Attributes: domain.InputAttributes{Expanded: expanded},
	}
}

func viewNames(s *store.Store) []string {
	var out []string
	for _, r := range s.Data.ViewData() {
		out = append(out, r.Value("name").(string))
	}
	return out
}

func rawNames(s *store.Store) []string {
	var out []string
	for _, r := range s.Data.RawData() {
		out = append(out, r.Value("name").(string))
	}
	return out
}

func newTreeStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(treeConfig(), store.WithID("grid-1"))
	require.NoError(t, err)
	s.Load([]domain.InputRow{
		node("docs", false, node("a.md", false), node("b.md", false)),
		node("src", true, node("main.go", false), node("pkg", false, node("util.go", false))),
	})
	return s
}

func TestNew_Validation(t *testing.T) {
	t.Run("duplicate column", func(t *testing.T) {
		_, err := store.New(store.Config{Columns: []domain.Column{{Name: "a"}, {Name: "a"}}})
		assert.ErrorIs(t, err, domain.ErrDuplicateColumn)
	})
	t.Run("unknown row header", func(t *testing.T) {
		_, err := store.New(store.Config{RowHeaders: []string{"stamp"}})
		assert.ErrorIs(t, err, domain.ErrUnknownColumn)
	})
	t.Run("tree column must exist", func(t *testing.T) {
		_, err := store.New(store.Config{Columns: []domain.Column{{Name: "a"}}, Tree: &store.TreeConfig{Column: "b"}})
		assert.ErrorIs(t, err, domain.ErrUnknownColumn)
	})
	t.Run("defaults", func(t *testing.T) {
		s, err := store.New(store.Config{Columns: []domain.Column{{Name: "a"}}})
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, domain.DefaultBodyRows, s.PageSize())
		assert.False(t, s.Hierarchical())
	})
}

func TestColumnModel(t *testing.T) {
	s, err := store.New(store.Config{
		RowHeaders: []string{domain.RowHeaderNumber, domain.RowHeaderCheckbox},
		Columns:    []domain.Column{{Name: "a"}, {Name: "b", Hidden: true}, {Name: "c"}},
	})
	require.NoError(t, err)
	cols := s.Column

	assert.Len(t, cols.All(), 5)
	assert.Len(t, cols.Visible(), 4)
	assert.Equal(t, 2, cols.RowHeaderCount())
	assert.Equal(t, "a", cols.DataColumns()[0].Name)
	assert.Equal(t, 3, cols.IndexOf("c"))
	assert.Equal(t, -1, cols.IndexOf("b"))

	runs := 0
	s.Context().Observe(func() {
		_ = cols.Visible()
		runs++
	})
	require.NoError(t, cols.SetHidden("b", false))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 3, cols.IndexOf("b"))

	assert.ErrorIs(t, cols.SetHidden(domain.RowHeaderNumber, true), domain.ErrUnknownColumn)
	assert.ErrorIs(t, cols.SetHidden("zzz", true), domain.ErrUnknownColumn)
}

func TestLoad_Tree(t *testing.T) {
	s := newTreeStore(t)

	assert.Equal(t, []string{"docs", "a.md", "b.md", "src", "main.go", "pkg", "util.go"}, rawNames(s))
	assert.Equal(t, []string{"docs", "src", "main.go", "pkg"}, viewNames(s))

	row, ok := s.FindRow(s.Data.RawData()[1].Key)
	require.True(t, ok)
	assert.Equal(t, "a.md", row.Value("name"))
	assert.Equal(t, 2, s.ViewIndex(s.Data.RawData()[4].Key))
	assert.Equal(t, -1, s.ViewIndex(s.Data.RawData()[1].Key))

	_, ok = s.ViewRow(10)
	assert.False(t, ok)
}

func TestLoad_Flat(t *testing.T) {
	s, err := store.New(store.Config{Columns: []domain.Column{{Name: "name"}}, KeyColumnName: "id"})
	require.NoError(t, err)
	s.Load([]domain.InputRow{
		{Values: map[string]any{"name": "x", "id": 5}},
		{Values: map[string]any{"name": "y"}},
	})

	assert.Equal(t, []string{"x", "y"}, viewNames(s))
	assert.Equal(t, domain.RowKey(5), s.Data.RawData()[0].Key)
	assert.Equal(t, domain.RowKey(6), s.Data.RawData()[1].Key)
	assert.Nil(t, s.Data.RawData()[0].Tree())
}

func TestLoad_DuplicateKeysAreRekeyed(t *testing.T) {
	t.Run("flat key column", func(t *testing.T) {
		var logs bytes.Buffer
		s, err := store.New(store.Config{Columns: []domain.Column{{Name: "name"}}, KeyColumnName: "id"},
			store.WithLogger(logging.New(&logs, slog.LevelWarn)))
		require.NoError(t, err)
		s.Load([]domain.InputRow{
			{Values: map[string]any{"name": "x", "id": 0}},
			{Values: map[string]any{"name": "y", "id": 1}},
			{Values: map[string]any{"name": "z", "id": 0}},
		})

		raw := s.Data.RawData()
		require.Len(t, raw, 3)
		assert.Equal(t, []domain.RowKey{0, 1, 2}, []domain.RowKey{raw[0].Key, raw[1].Key, raw[2].Key})
		x, _ := s.FindRow(0)
		assert.Equal(t, "x", x.Value("name"))
		assert.Contains(t, logs.String(), "duplicate row key")
	})

	t.Run("tree keeps linkage on the new key", func(t *testing.T) {
		s, err := store.New(treeConfig())
		require.NoError(t, err)
		key := domain.RowKey(3)
		child := node("child", false)
		child.RowKey = &key
		parent := node("parent", true, child)
		parent.RowKey = &key
		s.Load([]domain.InputRow{parent})

		raw := s.Data.RawData()
		require.Len(t, raw, 2)
		assert.Equal(t, domain.RowKey(3), raw[0].Key)
		assert.NotEqual(t, raw[0].Key, raw[1].Key)
		assert.Equal(t, []domain.RowKey{raw[1].Key}, raw[0].Tree().ChildRowKeys())
		assert.Equal(t, domain.SomeRowKey(3), raw[1].Tree().ParentRowKey())
	})
}

func TestFocus_DerivedIndices(t *testing.T) {
	s := newTreeStore(t)
	src := s.Data.RawData()[3]

	_, _, ok := s.Focus.Indices()
	assert.False(t, ok)

	s.Focus.RowKey.Set(domain.SomeRowKey(src.Key))
	s.Focus.ColumnName.Set("size")

	row, col, ok := s.Focus.Indices()
	require.True(t, ok)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	// Expanding docs shifts src down the view.
	require.NoError(t, s.Expand(s.Data.RawData()[0].Key, false))
	assert.Equal(t, 3, s.Focus.RowIndex.Get())

	addr, ok := s.Focus.Address()
	require.True(t, ok)
	assert.Equal(t, domain.CellAddress{RowKey: src.Key, ColumnName: "size"}, addr)
}

func TestExpandCollapse(t *testing.T) {
	s := newTreeStore(t)
	src := s.Data.RawData()[3]
	pkg := s.Data.RawData()[5]

	require.NoError(t, s.Expand(src.Key, true))
	assert.Equal(t, []string{"docs", "src", "main.go", "pkg", "util.go"}, viewNames(s))
	assert.True(t, pkg.Tree().Expanded())

	// Focus on a row that becomes hidden is cleared.
	s.Focus.RowKey.Set(domain.SomeRowKey(s.Data.RawData()[6].Key))
	s.Focus.ColumnName.Set("name")
	s.Selection.InputRange.Set(&domain.SelectionRange{Row: [2]int{0, 1}})

	require.NoError(t, s.Collapse(src.Key, false))
	assert.Equal(t, []string{"docs", "src"}, viewNames(s))
	assert.False(t, s.Focus.RowKey.Get().Valid)
	assert.Nil(t, s.Selection.InputRange.Get())
	assert.True(t, pkg.Tree().Expanded(), "non-recursive collapse keeps descendant state")

	require.NoError(t, s.Expand(src.Key, false))
	assert.Equal(t, []string{"docs", "src", "main.go", "pkg", "util.go"}, viewNames(s))

	assert.ErrorIs(t, s.Expand(999, false), domain.ErrRowNotFound)
}

func TestExpand_LargeSubtreeDerivesViewOnce(t *testing.T) {
	const n = 10000
	s, err := store.New(treeConfig())
	require.NoError(t, err)
	children := make([]domain.InputRow, n)
	for i := range children {
		children[i] = node("leaf", false)
	}
	s.Load([]domain.InputRow{node("root", false, children...)})
	root := s.Data.RawData()[0]
	require.Len(t, s.Data.ViewData(), 1)

	views := s.Context().Observe(func() { s.Data.ViewData() })
	defer views.Stop()

	// 1. Expanding n children publishes one new view
	require.NoError(t, s.Expand(root.Key, false))
	assert.Len(t, s.Data.ViewData(), n+1)
	assert.Equal(t, 2, views.Runs())

	// 2. So does collapsing them, recursively
	require.NoError(t, s.Collapse(root.Key, true))
	assert.Len(t, s.Data.ViewData(), 1)
	assert.Equal(t, 3, views.Runs())
}

func TestExpand_Lazy(t *testing.T) {
	cfg := treeConfig()
	cfg.Tree.LazyObservable = true
	s, err := store.New(cfg)
	require.NoError(t, err)
	s.Load([]domain.InputRow{node("p", false, node("c", false))})
	assert.Equal(t, []string{"p"}, viewNames(s))

	require.NoError(t, s.Expand(s.Data.RawData()[0].Key, false))
	assert.Equal(t, []string{"p", "c"}, viewNames(s))
}

func TestAppendTreeRow(t *testing.T) {
	t.Run("at offset under parent", func(t *testing.T) {
		s := newTreeStore(t)
		src := s.Data.RawData()[3]

		added, err := s.AppendTreeRow(node("go.mod", false), domain.SomeRowKey(src.Key), tree.At(1))
		require.NoError(t, err)
		require.Len(t, added, 1)

		assert.Equal(t, []string{"docs", "a.md", "b.md", "src", "main.go", "go.mod", "pkg", "util.go"}, rawNames(s))
		assert.Equal(t, []string{"docs", "src", "main.go", "go.mod", "pkg"}, viewNames(s))
		assert.Equal(t, added[0].Key, src.Tree().ChildRowKeys()[1])
		assert.Equal(t, domain.RowKey(7), added[0].Key)
	})

	t.Run("appended subtree goes after the parent's subtree", func(t *testing.T) {
		s := newTreeStore(t)
		src := s.Data.RawData()[3]

		added, err := s.AppendTreeRow(node("cmd", true, node("main.go", false)), domain.SomeRowKey(src.Key), nil)
		require.NoError(t, err)
		assert.Len(t, added, 2)
		assert.Equal(t, []string{"docs", "a.md", "b.md", "src", "main.go", "pkg", "util.go", "cmd", "main.go"}, rawNames(s))
	})

	t.Run("root at offset", func(t *testing.T) {
		s := newTreeStore(t)
		_, err := s.AppendTreeRow(node("README", false), domain.NullRowKey{}, tree.At(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"docs", "README", "src", "main.go", "pkg"}, viewNames(s))
	})

	t.Run("missing parent", func(t *testing.T) {
		s := newTreeStore(t)
		_, err := s.AppendTreeRow(node("x", false), domain.SomeRowKey(404), nil)
		assert.ErrorIs(t, err, domain.ErrRowNotFound)
	})

	t.Run("duplicate keys are rejected", func(t *testing.T) {
		s := newTreeStore(t)
		before := rawNames(s)

		// 1. A key already in the grid
		taken := s.Data.RawData()[0].Key
		in := node("dup", false)
		in.RowKey = &taken
		_, err := s.AppendTreeRow(in, domain.NullRowKey{}, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateRowKey)

		// 2. A key repeated inside the new subtree
		fresh := domain.RowKey(100)
		child := node("c", false)
		child.RowKey = &fresh
		sub := node("p", true, child)
		sub.RowKey = &fresh
		_, err = s.AppendTreeRow(sub, domain.NullRowKey{}, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateRowKey)

		assert.Equal(t, before, rawNames(s))
		_, ok := s.FindRow(fresh)
		assert.False(t, ok)
	})

	t.Run("flat grid", func(t *testing.T) {
		s, err := store.New(store.Config{Columns: []domain.Column{{Name: "name"}}})
		require.NoError(t, err)
		s.Load([]domain.InputRow{node("a", false), node("b", false)})

		_, err = s.AppendTreeRow(node("mid", false), domain.NullRowKey{}, tree.At(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "mid", "b"}, viewNames(s))
	})
}

func TestRemoveTreeRow(t *testing.T) {
	s := newTreeStore(t)
	src := s.Data.RawData()[3]
	pkg := s.Data.RawData()[5]
	util := s.Data.RawData()[6]

	s.Focus.RowKey.Set(domain.SomeRowKey(util.Key))
	s.Focus.ColumnName.Set("name")

	require.NoError(t, s.RemoveTreeRow(pkg.Key))
	assert.Equal(t, []string{"docs", "a.md", "b.md", "src", "main.go"}, rawNames(s))
	assert.NotContains(t, src.Tree().ChildRowKeys(), pkg.Key)
	assert.Len(t, src.Children, 1)

	_, ok := s.FindRow(util.Key)
	assert.False(t, ok)
	assert.False(t, s.Focus.RowKey.Get().Valid)

	assert.ErrorIs(t, s.RemoveTreeRow(pkg.Key), domain.ErrRowNotFound)
}

func TestTreeCellInfo(t *testing.T) {
	s := newTreeStore(t)
	src := s.Data.RawData()[3]
	util := s.Data.RawData()[6]

	info, err := s.TreeCellInfo(util.Key)
	require.NoError(t, err)
	assert.Equal(t, 3, info.Depth)
	assert.Equal(t, 22+2*22, info.IndentWidth)

	srcInfo, err := s.TreeCellInfo(src.Key)
	require.NoError(t, err)
	assert.True(t, srcInfo.Expanded())
	require.NoError(t, s.Collapse(src.Key, false))
	assert.False(t, srcInfo.Expanded())

	_, err = s.TreeCellInfo(404)
	assert.ErrorIs(t, err, domain.ErrRowNotFound)
}

func TestSnapshots(t *testing.T) {
	s := newTreeStore(t)
	src := s.Data.RawData()[3]
	s.Focus.RowKey.Set(domain.SomeRowKey(src.Key))
	s.Focus.ColumnName.Set("name")
	s.Focus.EditingAddress.Set(&domain.CellAddress{RowKey: src.Key, ColumnName: "name"})

	st := s.State()
	assert.Equal(t, "grid-1", st.ID)
	assert.Equal(t, []string{domain.RowHeaderNumber, "name", "size"}, st.Columns)
	assert.Equal(t, 7, st.RowCount)
	assert.Equal(t, 4, st.ViewCount)
	assert.Equal(t, 1, st.Focus.RowIndex)
	require.NotNil(t, st.Focus.EditingAddress)
	assert.Nil(t, st.Selection)

	rows := s.Rows(true)
	require.Len(t, rows, 4)
	assert.Equal(t, 2, rows[2].Depth)
	assert.Equal(t, src.Key, rows[2].Parent.Key)
	assert.True(t, rows[1].Expanded)
	assert.Len(t, s.Rows(false), 7)
}

func TestDestroy(t *testing.T) {
	s := newTreeStore(t)
	require.Positive(t, s.Context().Len())

	s.Destroy()
	s.Destroy()
	assert.True(t, s.Destroyed())
	assert.Equal(t, 0, s.Context().Len())
	assert.True(t, s.Keys().Disposed())
	_, ok := s.FindRow(0)
	assert.False(t, ok)
}
