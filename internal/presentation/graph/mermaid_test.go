package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func row(key int, parent int, leaf, expanded, hidden bool, name string) lattice.RowState {
	r := lattice.RowState{
		RowKey:   domain.RowKey(key),
		Values:   map[string]any{"name": name},
		Leaf:     leaf,
		Expanded: expanded,
		Hidden:   hidden,
	}
	if parent >= 0 {
		r.Parent = domain.SomeRowKey(domain.RowKey(parent))
	}
	return r
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		rows     []lattice.RowState
		contains []string
		excludes []string
	}{
		{
			name: "Node Shapes",
			rows: []lattice.RowState{
				row(0, -1, false, true, false, "src"),
				row(1, -1, false, false, false, "docs"),
				row(2, -1, true, false, false, "go.mod"),
			},
			contains: []string{
				`r0(["src"])`,
				`r1[["docs"]]`,
				`r2["go.mod"]`,
			},
		},
		{
			name: "Edges",
			rows: []lattice.RowState{
				row(0, -1, false, true, false, "src"),
				row(1, 0, true, false, false, "main.go"),
				row(2, -1, false, false, false, "docs"),
				row(3, 2, true, false, true, "guide.md"),
			},
			contains: []string{
				"r0 --> r1",
				"r2 -.-> r3",
			},
		},
		{
			name: "Caption Escaping",
			rows: []lattice.RowState{
				row(0, -1, true, false, false, `say "hi"`),
				{RowKey: 1, Leaf: true},
			},
			contains: []string{
				`r0["say 'hi'"]`,
				`r1["#1"]`,
			},
		},
		{
			name: "No Overlay",
			rows: []lattice.RowState{
				row(0, -1, true, false, false, "a"),
			},
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.rows, "name", nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	rows := []lattice.RowState{
		row(0, -1, true, false, false, "a"),
		row(1, -1, true, false, false, "b"),
		row(2, -1, true, false, false, "c"),
	}
	overlay := &graph.Overlay{
		Focused:  domain.SomeRowKey(1),
		Selected: []domain.RowKey{0, 1, 2, 2},
	}

	got := graph.GenerateMermaid(rows, "name", overlay)

	assert.Contains(t, got, "classDef focused")
	assert.Contains(t, got, "class r1 focused;")
	assert.Contains(t, got, "class r0 selected;")
	// Focus wins over selection and duplicates collapse.
	assert.NotContains(t, got, "class r1 selected;")
	assert.Equal(t, 1, strings.Count(got, "class r2 selected;"))
}
