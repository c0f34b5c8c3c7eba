package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the tree.
type Overlay struct {
	Focused  domain.NullRowKey
	Selected []domain.RowKey
}

// GenerateMermaid produces a Mermaid flowchart of the row tree. label names
// the column whose value captions each node. Shapes follow the row kind:
// - Leaf: [Rectangle]
// - Expanded parent: ([Stadium])
// - Collapsed parent: [[Subroutine]]
// Edges into hidden rows are dotted. Overlay styles are applied if provided.
func GenerateMermaid(rows []lattice.RowState, label string, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, row := range rows {
		id := nodeID(row.RowKey)

		opener, closer := "[", "]"
		switch {
		case row.Leaf:
		case row.Expanded:
			opener, closer = "([", "])"
		default:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, caption(row, label), closer)

		if row.Parent.Valid {
			arrow := "-->"
			if row.Hidden {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(row.Parent.Key), arrow, id)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef selected fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focused fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.RowKey]bool)
		for _, key := range overlay.Selected {
			if seen[key] || (overlay.Focused.Valid && overlay.Focused.Key == key) {
				continue
			}
			seen[key] = true
			fmt.Fprintf(&sb, "    class %s selected;\n", nodeID(key))
		}
		if overlay.Focused.Valid {
			fmt.Fprintf(&sb, "    class %s focused;\n", nodeID(overlay.Focused.Key))
		}
	}

	return sb.String()
}

func nodeID(key domain.RowKey) string {
	return fmt.Sprintf("r%d", key)
}

func caption(row lattice.RowState, label string) string {
	v, ok := row.Values[label]
	if !ok || v == nil {
		return fmt.Sprintf("#%d", row.RowKey)
	}
	// Double quotes would end the Mermaid label.
	return strings.ReplaceAll(fmt.Sprint(v), "\"", "'")
}
