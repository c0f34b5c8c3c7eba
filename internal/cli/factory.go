package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
)

// GridOptions names the files and instrumentation of a CLI grid.
type GridOptions struct {
	DefinitionPath string
	DataPath       string // optional, replaces the definition's inline rows
	Metrics        *observability.Metrics
}

// CreateLogger configures the application logger. Records go to Stderr so
// stdout stays free for tables and JSON.
func CreateLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, lvl), nil
}

// CreateGrid loads a grid with the standard CLI conventions.
func CreateGrid(opts GridOptions, logger *slog.Logger) (*lattice.Grid, error) {
	def, err := lattice.LoadDefinition(opts.DefinitionPath)
	if err != nil {
		return nil, fmt.Errorf("error loading definition: %w", err)
	}

	// 1. Logger & Hooks
	gridOpts := []lattice.Option{
		lattice.WithLogger(logger),
		lattice.WithLifecycleHooks(createDebugHooks(logger)),
	}
	if opts.Metrics != nil {
		gridOpts = append(gridOpts, lattice.WithLifecycleHooks(opts.Metrics.Hooks()))
	}

	// 2. Initialize
	grid, err := lattice.NewFromDefinition(def, gridOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing grid: %w", err)
	}

	// 3. External data wins over inline rows.
	if opts.DataPath != "" {
		rows, err := lattice.LoadRows(opts.DataPath)
		if err != nil {
			grid.Destroy()
			return nil, fmt.Errorf("error loading rows: %w", err)
		}
		grid.Load(rows)
	}

	logger.Debug("grid ready", "grid", grid.ID(), "rows", grid.State().RowCount)
	return grid, nil
}

// FocusFirstCell focuses the first data cell of the first visible row.
func FocusFirstCell(g *lattice.Grid) bool {
	rows := g.Rows(true)
	if len(rows) == 0 {
		return false
	}
	for _, c := range g.Columns() {
		if !c.RowHeader() {
			g.FocusCell(rows[0].RowKey, c.Name)
			return true
		}
	}
	return false
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(e *domain.ActionEvent) {
			logger.Debug("Dispatch", "grid", e.GridID, "action", e.Action.String())
		},
		OnFocusChange: func(e *domain.FocusEvent) {
			logger.Debug("Focus Change", "row", e.RowKey.Key, "column", e.ColumnName, "prev_row", e.PrevRowKey.Key, "prev_column", e.PrevColumnName)
		},
		OnMoveRejected: func(e *domain.FocusEvent) {
			logger.Debug("Move Rejected", "row", e.RowKey.Key, "column", e.ColumnName)
		},
		OnEditStart: func(e *domain.FocusEvent) {
			logger.Debug("Edit Start", "row", e.RowKey.Key, "column", e.ColumnName)
		},
		OnSelectionChange: func(e *domain.SelectionEvent) {
			logger.Debug("Selection Change", "range", e.Range)
		},
		OnContentRemove: func(e *domain.RemoveEvent) {
			logger.Debug("Content Remove", "range", e.Range, "cleared", e.Cleared)
		},
	}
}
