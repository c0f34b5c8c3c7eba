package lattice

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/dispatch"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/internal/store"
	"github.com/aretw0/lattice/internal/tree"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/editor"
	"github.com/aretw0/lattice/pkg/keymap"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/reactive"
)

type (
	// Config describes the shape of a grid.
	Config = store.Config
	// TreeConfig enables hierarchical rows.
	TreeConfig = store.TreeConfig
	// Definition is a parsed grid definition file.
	Definition = config.Definition
	// State is a plain copy of the grid state.
	State = store.State
	// FocusState is a plain copy of the focus.
	FocusState = store.FocusState
	// RowState is a plain copy of one row.
	RowState = store.RowState
	// CellInfo is the rendering info of a tree cell.
	CellInfo = tree.CellInfo
	// Focus is the live reactive focus.
	Focus = store.Focus
	// Selection is the live reactive selection.
	Selection = store.Selection
)

// Grid is one grid instance.
type Grid struct {
	store      *store.Store
	dispatcher *dispatch.Dispatcher
	keymap     *keymap.Keymap
	editors    *editor.Registry
	resolver   ports.CellResolver
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	id         string
}

// Option defines a functional option for configuring the Grid.
type Option func(*Grid)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grid) {
		g.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls chain.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Grid) {
		g.hooks = domain.MergeHooks(g.hooks, hooks)
	}
}

// WithKeymap replaces the default key bindings.
func WithKeymap(k *keymap.Keymap) Option {
	return func(g *Grid) {
		g.keymap = k
	}
}

// WithResolver replaces the default clamping boundary policy.
func WithResolver(r ports.CellResolver) Option {
	return func(g *Grid) {
		g.resolver = r
	}
}

// WithEditors sets the editor registry used by NewFromDefinition.
func WithEditors(r *editor.Registry) Option {
	return func(g *Grid) {
		g.editors = r
	}
}

// WithID fixes the grid instance id instead of generating one.
func WithID(id string) Option {
	return func(g *Grid) {
		g.id = id
	}
}

// New creates an empty grid.
func New(cfg Config, opts ...Option) (*Grid, error) {
	g := newGrid(opts)
	if err := g.init(cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// NewFromDefinition creates a grid from a definition and loads its inline rows.
func NewFromDefinition(def *Definition, opts ...Option) (*Grid, error) {
	g := newGrid(opts)

	cfg, err := def.StoreConfig(g.editors)
	if err != nil {
		return nil, err
	}
	if err := def.ApplyKeymap(g.keymap); err != nil {
		return nil, err
	}
	rows, err := def.Rows()
	if err != nil {
		return nil, err
	}
	if err := g.init(cfg); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		g.Load(rows)
	}
	return g, nil
}

// LoadDefinition reads a definition file (YAML, or JSON by extension).
func LoadDefinition(path string) (*Definition, error) {
	return config.Load(path)
}

// ParseDefinition decodes a definition in the given format (".json" or YAML).
func ParseDefinition(data []byte, format string) (*Definition, error) {
	return config.Parse(data, format)
}

// LoadRows reads a data file of nested rows.
func LoadRows(path string) ([]domain.InputRow, error) {
	return config.LoadRows(path)
}

func newGrid(opts []Option) *Grid {
	g := &Grid{
		keymap:   keymap.Default(),
		editors:  editor.Default(),
		resolver: dispatch.DefaultResolver,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Grid) init(cfg Config) error {
	storeOpts := []store.Option{store.WithLogger(g.logger)}
	if g.id != "" {
		storeOpts = append(storeOpts, store.WithID(g.id))
	}
	s, err := store.New(cfg, storeOpts...)
	if err != nil {
		return fmt.Errorf("failed to create grid: %w", err)
	}
	g.store = s
	g.id = s.ID
	g.dispatcher = dispatch.New(s,
		dispatch.WithResolver(g.resolver),
		dispatch.WithHooks(g.hooks),
	)
	return nil
}

// ID returns the grid instance id.
func (g *Grid) ID() string {
	return g.id
}

// Keymap returns the grid's key bindings.
func (g *Grid) Keymap() *keymap.Keymap {
	return g.keymap
}

// Load replaces all rows and resets focus and selection.
func (g *Grid) Load(rows []domain.InputRow) {
	g.store.Load(rows)
}

// Dispatch applies an action.
func (g *Grid) Dispatch(a domain.Action) error {
	return g.dispatcher.Dispatch(a)
}

// HandleKey resolves a key stroke through the keymap and dispatches it.
func (g *Grid) HandleKey(stroke string) (domain.Action, error) {
	a, err := g.keymap.Resolve(stroke)
	if err != nil {
		return domain.Action{}, err
	}
	return a, g.dispatcher.Dispatch(a)
}

// FocusCell focuses a cell directly, as a pointer click would.
func (g *Grid) FocusCell(key domain.RowKey, column string) {
	g.dispatcher.SetFocusInfo(domain.SomeRowKey(key), column, true)
}

// Blur clears focus.
func (g *Grid) Blur() {
	g.dispatcher.SetFocusInfo(domain.NullRowKey{}, "", false)
}

// Focus returns a snapshot of the focus.
func (g *Grid) Focus() FocusState {
	return g.store.FocusState()
}

// Selection returns the active input range, or nil.
func (g *Grid) Selection() *domain.SelectionRange {
	return g.store.SelectionState()
}

// State returns a snapshot of focus, selection and sizes.
func (g *Grid) State() State {
	return g.store.State()
}

// Rows returns snapshots of every row, or only the visible ones.
func (g *Grid) Rows(visibleOnly bool) []RowState {
	return g.store.Rows(visibleOnly)
}

// Columns returns the visible columns, row headers first.
func (g *Grid) Columns() []*domain.Column {
	var cols []*domain.Column
	g.store.Context().Untracked(func() {
		cols = g.store.Column.Visible()
	})
	return cols
}

// TreeColumn names the column that carries the tree, or "" for flat grids.
func (g *Grid) TreeColumn() string {
	if t := g.store.Config().Tree; t != nil {
		return t.Column
	}
	return ""
}

// Value returns one cell value.
func (g *Grid) Value(key domain.RowKey, column string) (any, error) {
	row, err := g.cell(key, column)
	if err != nil {
		return nil, err
	}
	return row.Values.Snapshot()[column], nil
}

// SetValue writes one cell value.
func (g *Grid) SetValue(key domain.RowKey, column string, v any) error {
	row, err := g.cell(key, column)
	if err != nil {
		return err
	}
	row.SetValue(column, v)
	return nil
}

// Expand shows the children of a row.
func (g *Grid) Expand(key domain.RowKey, recursive bool) error {
	return g.store.Expand(key, recursive)
}

// Collapse hides the children of a row.
func (g *Grid) Collapse(key domain.RowKey, recursive bool) error {
	return g.store.Collapse(key, recursive)
}

// AppendRow adds a row (with its children) under parent at offset.
func (g *Grid) AppendRow(in domain.InputRow, parent domain.NullRowKey, offset *int) ([]RowState, error) {
	added, err := g.store.AppendTreeRow(in, parent, offset)
	if err != nil {
		return nil, err
	}
	keys := make(map[domain.RowKey]struct{}, len(added))
	for _, r := range added {
		keys[r.Key] = struct{}{}
	}
	var out []RowState
	for _, st := range g.store.Rows(false) {
		if _, ok := keys[st.RowKey]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

// RemoveRow removes a row and its subtree.
func (g *Grid) RemoveRow(key domain.RowKey) error {
	return g.store.RemoveTreeRow(key)
}

// TreeCellInfo returns tree rendering info for a row. On eager grids the info
// follows the row until Stop is called.
func (g *Grid) TreeCellInfo(key domain.RowKey) (*CellInfo, error) {
	return g.store.TreeCellInfo(key)
}

// Observe registers fn as a reactive computation on the grid's store.
func (g *Grid) Observe(fn func()) *reactive.Computation {
	return g.store.Context().Observe(fn)
}

// FocusFields returns the live reactive focus, for use inside Observe.
func (g *Grid) FocusFields() *Focus {
	return g.store.Focus
}

// SelectionFields returns the live reactive selection, for use inside Observe.
func (g *Grid) SelectionFields() *Selection {
	return g.store.Selection
}

// Destroy stops every computation and releases the row-key counter.
func (g *Grid) Destroy() {
	g.store.Destroy()
	g.logger.Debug("grid destroyed", "grid", g.id)
}

func (g *Grid) cell(key domain.RowKey, column string) (*domain.Row, error) {
	row, ok := g.store.FindRow(key)
	if !ok {
		return nil, fmt.Errorf("row %d: %w", key, domain.ErrRowNotFound)
	}
	if _, ok := g.store.Column.Get(column); !ok {
		return nil, fmt.Errorf("column %q: %w", column, domain.ErrUnknownColumn)
	}
	return row, nil
}

// At returns an insertion offset for AppendRow.
func At(offset int) *int {
	return tree.At(offset)
}
