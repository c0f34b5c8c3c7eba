package observability

import (
	"net/http"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the grid collectors.
type Metrics struct {
	registry *prometheus.Registry

	Actions       *prometheus.CounterVec
	FocusChanges  prometheus.Counter
	RejectedMoves prometheus.Counter
	EditStarts    *prometheus.CounterVec
	Selections    prometheus.Counter
	ClearedCells  prometheus.Counter
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_actions_total",
				Help: "Total number of dispatched actions",
			},
			[]string{"type", "command"},
		),
		FocusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_focus_changes_total",
			Help: "Total number of focus changes",
		}),
		RejectedMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_rejected_moves_total",
			Help: "Total number of moves rejected on row header columns",
		}),
		EditStarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_edit_starts_total",
				Help: "Total number of cells entering edit mode",
			},
			[]string{"column"},
		),
		Selections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_selection_changes_total",
			Help: "Total number of selection range changes",
		}),
		ClearedCells: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lattice_cleared_cells_total",
			Help: "Total number of cells cleared by content removal",
		}),
	}
	m.registry.MustRegister(m.Actions, m.FocusChanges, m.RejectedMoves, m.EditStarts, m.Selections, m.ClearedCells)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(e *domain.ActionEvent) {
			m.Actions.WithLabelValues(string(e.Action.Type), e.Action.Command.String()).Inc()
		},
		OnFocusChange: func(e *domain.FocusEvent) {
			m.FocusChanges.Inc()
		},
		OnMoveRejected: func(e *domain.FocusEvent) {
			m.RejectedMoves.Inc()
		},
		OnEditStart: func(e *domain.FocusEvent) {
			m.EditStarts.WithLabelValues(e.ColumnName).Inc()
		},
		OnSelectionChange: func(e *domain.SelectionEvent) {
			m.Selections.Inc()
		},
		OnContentRemove: func(e *domain.RemoveEvent) {
			m.ClearedCells.Add(float64(e.Cleared))
		},
	}
}
