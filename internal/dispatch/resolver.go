package dispatch

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// ClampResolver resolves commands without ever wrapping past the grid edges.
type ClampResolver struct{}

// DefaultResolver is the resolver used when none is configured.
var DefaultResolver ports.CellResolver = ClampResolver{}

// NextCellIndex implements ports.CellResolver.
func (ClampResolver) NextCellIndex(cmd domain.Command, row, col int, b ports.Bounds) (int, int) {
	lastRow, lastCol := b.RowCount-1, b.ColumnCount-1
	page := b.PageSize
	if page <= 0 {
		page = domain.DefaultBodyRows
	}

	switch cmd {
	case domain.CommandUp:
		row--
	case domain.CommandDown:
		row++
	case domain.CommandLeft:
		col--
	case domain.CommandRight:
		col++
	case domain.CommandPageUp:
		row -= page
	case domain.CommandPageDown:
		row += page
	case domain.CommandFirstColumn:
		col = b.FirstColumn
	case domain.CommandLastColumn:
		col = lastCol
	case domain.CommandFirstCell:
		row, col = 0, b.FirstColumn
	case domain.CommandLastCell:
		row, col = lastRow, lastCol
	case domain.CommandPrevCell:
		switch {
		case col > b.FirstColumn:
			col--
		case row > 0:
			row, col = row-1, lastCol
		}
	case domain.CommandNextCell:
		switch {
		case col < lastCol:
			col++
		case row < lastRow:
			row, col = row+1, b.FirstColumn
		}
	}
	return clamp(row, lastRow), clamp(col, lastCol)
}

func clamp(i, last int) int {
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	return i
}
