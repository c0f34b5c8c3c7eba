package store

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/internal/tree"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reactive"
	"github.com/google/uuid"
)

// Config describes the shape of a grid.
type Config struct {
	Columns    []domain.Column
	RowHeaders []string
	// BodyRows is the page size for pageUp/pageDown.
	BodyRows      int
	KeyColumnName string
	// Tree makes the grid hierarchical; nil keeps it flat.
	Tree *TreeConfig
	// Disabled marks every loaded row as disabled.
	Disabled bool
}

// TreeConfig enables hierarchical rows.
type TreeConfig struct {
	Column         string
	IndentWidth    *int // nil uses the default indent
	UseIcon        bool
	LazyObservable bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithID overrides the generated grid instance id.
func WithID(id string) Option {
	return func(s *Store) {
		s.ID = id
	}
}

// Store is the state of one grid instance.
type Store struct {
	ID        string
	Data      *Data
	Column    *ColumnModel
	Focus     *Focus
	Selection *Selection

	cfg          Config
	ctx          *reactive.Context
	keys         *tree.KeyCounter
	materializer *tree.Materializer
	rows         map[domain.RowKey]*domain.Row
	logger       *slog.Logger
	destroyed    bool
}

// New creates an empty store for cfg.
func New(cfg Config, opts ...Option) (*Store, error) {
	if cfg.BodyRows <= 0 {
		cfg.BodyRows = domain.DefaultBodyRows
	}

	ctx := reactive.NewContext()
	columns, err := NewColumnModel(ctx, cfg.RowHeaders, cfg.Columns)
	if err != nil {
		return nil, err
	}
	if cfg.Tree != nil {
		if _, ok := columns.Get(cfg.Tree.Column); !ok {
			return nil, fmt.Errorf("tree column %q: %w", cfg.Tree.Column, domain.ErrUnknownColumn)
		}
	}

	keys := &tree.KeyCounter{}
	s := &Store{
		ID:           uuid.NewString(),
		Column:       columns,
		Focus:        newFocus(ctx),
		Selection:    newSelection(ctx),
		cfg:          cfg,
		ctx:          ctx,
		keys:         keys,
		materializer: tree.NewMaterializer(ctx, keys),
		rows:         make(map[domain.RowKey]*domain.Row),
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("grid", s.ID)

	s.Data = newData(ctx)
	s.observeFocusIndices()
	return s, nil
}

// Context returns the store's tracking context.
func (s *Store) Context() *reactive.Context {
	return s.ctx
}

// Logger returns the store's logger.
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// Keys returns the store's row-key counter.
func (s *Store) Keys() *tree.KeyCounter {
	return s.keys
}

// Config returns the configuration the store was built with.
func (s *Store) Config() Config {
	return s.cfg
}

// PageSize returns the number of body rows moved by pageUp/pageDown.
func (s *Store) PageSize() int {
	return s.cfg.BodyRows
}

// Hierarchical reports whether rows carry tree attributes.
func (s *Store) Hierarchical() bool {
	return s.cfg.Tree != nil
}

// Load replaces all rows. Focus and selection are reset in place.
// An explicit key repeated within data is replaced by a fresh one, with a
// warning.
func (s *Store) Load(data []domain.InputRow) {
	opts := s.materializeOptions()
	opts.Used = tree.KeySet{}
	opts.OnRekey = func(explicit, issued domain.RowKey) {
		s.logger.Warn("duplicate row key", "key", explicit, "rekeyed", issued)
	}

	var rows []*domain.Row
	if s.Hierarchical() {
		rows = s.materializer.CreateRawData(data, opts)
	} else {
		rows = s.materializer.CreateRows(data, opts)
	}

	s.rows = make(map[domain.RowKey]*domain.Row, len(rows))
	for _, r := range rows {
		s.rows[r.Key] = r
	}

	s.Focus.Clear()
	s.Selection.InputRange.Set(nil)
	s.Data.setRaw(rows)
	s.logger.Debug("rows loaded", "rows", len(rows), "visible", len(s.Data.viewData.Peek()))
}

// FindRow looks a row up by key.
func (s *Store) FindRow(key domain.RowKey) (*domain.Row, bool) {
	r, ok := s.rows[key]
	return r, ok
}

// ViewRow returns the visible row at index.
func (s *Store) ViewRow(index int) (*domain.Row, bool) {
	view := s.Data.ViewData()
	if index < 0 || index >= len(view) {
		return nil, false
	}
	return view[index], true
}

// ViewIndex returns the position of key among visible rows, or -1.
func (s *Store) ViewIndex(key domain.RowKey) int {
	for i, r := range s.Data.ViewData() {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// Destroyed reports whether Destroy was called.
func (s *Store) Destroyed() bool {
	return s.destroyed
}

// Destroy stops every computation and disposes the row-key counter.
func (s *Store) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.ctx.Dispose()
	s.keys.Dispose()
	s.rows = make(map[domain.RowKey]*domain.Row)
	s.logger.Debug("store destroyed")
}

func (s *Store) materializeOptions() tree.Options {
	opts := tree.Options{
		KeyColumnName: s.cfg.KeyColumnName,
		Disabled:      s.cfg.Disabled,
	}
	if s.cfg.Tree != nil {
		opts.LazyObservable = s.cfg.Tree.LazyObservable
	}
	return opts
}

// observeFocusIndices keeps RowIndex/TotalColumnIndex in step with the focused
// cell, the view rows and the visible columns.
func (s *Store) observeFocusIndices() {
	s.ctx.Observe(func() {
		key := s.Focus.RowKey.Get()
		name := s.Focus.ColumnName.Get()

		rowIndex := -1
		if key.Valid {
			rowIndex = s.ViewIndex(key.Key)
		}
		columnIndex := -1
		if name != "" {
			columnIndex = s.Column.IndexOf(name)
		}

		s.Focus.RowIndex.Set(rowIndex)
		s.Focus.TotalColumnIndex.Set(columnIndex)
	})
}
