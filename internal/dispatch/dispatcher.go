package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice/internal/store"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithResolver replaces the boundary policy.
func WithResolver(r ports.CellResolver) Option {
	return func(d *Dispatcher) {
		d.resolver = r
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = h
	}
}

// WithLogger sets the dispatcher's logger. Defaults to the store's.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// Dispatcher drives one store.
type Dispatcher struct {
	store    *store.Store
	resolver ports.CellResolver
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// New creates a dispatcher for s.
func New(s *store.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    s,
		resolver: DefaultResolver,
		logger:   s.Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the dispatched store.
func (d *Dispatcher) Store() *store.Store {
	return d.store
}

// Dispatch routes an action to its handler. A move also drops the selection.
func (d *Dispatcher) Dispatch(a domain.Action) error {
	if d.hooks.OnDispatch != nil {
		d.hooks.OnDispatch(&domain.ActionEvent{GridID: d.store.ID, Action: a})
	}
	d.logger.Debug("dispatch", "action", a.String())

	switch a.Type {
	case domain.ActionMove:
		d.MoveFocus(a.Command)
		d.InitSelection()
	case domain.ActionEdit:
		d.EditFocus(a.Command)
	case domain.ActionSelect:
		d.ChangeSelection(a.Command)
	case domain.ActionRemove:
		d.RemoveContent()
	default:
		return fmt.Errorf("action %q: %w", string(a.Type), domain.ErrUnknownActionType)
	}
	return nil
}

// nextCellIndex asks the resolver and clamps its answer to b.
func (d *Dispatcher) nextCellIndex(cmd domain.Command, row, col int, b ports.Bounds) (int, int) {
	r, c := d.resolver.NextCellIndex(cmd, row, col, b)
	return clamp(r, b.RowCount-1), clamp(c, b.ColumnCount-1)
}
