package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_Count(t *testing.T) {
	m := observability.NewMetrics()
	h := m.Hooks()

	h.OnDispatch(&domain.ActionEvent{Action: domain.Action{Type: domain.ActionMove, Command: domain.CommandDown}})
	h.OnDispatch(&domain.ActionEvent{Action: domain.Action{Type: domain.ActionMove, Command: domain.CommandDown}})
	h.OnFocusChange(&domain.FocusEvent{})
	h.OnMoveRejected(&domain.FocusEvent{})
	h.OnEditStart(&domain.FocusEvent{ColumnName: "title"})
	h.OnSelectionChange(&domain.SelectionEvent{})
	h.OnContentRemove(&domain.RemoveEvent{Cleared: 4})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues("move", "down")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FocusChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectedMoves))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EditStarts.WithLabelValues("title")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Selections))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ClearedCells))
}

func TestHandler_Exposes(t *testing.T) {
	m := observability.NewMetrics()
	m.FocusChanges.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lattice_focus_changes_total 1")
}
