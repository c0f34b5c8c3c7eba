package ports

import "github.com/aretw0/lattice/pkg/domain"

// Bounds is the coordinate space a resolver works in.
//
// For focus moves, ColumnCount includes row header columns and FirstColumn is
// the row header count. For selection, columns are data columns and
// FirstColumn is zero.
type Bounds struct {
	RowCount    int
	ColumnCount int
	FirstColumn int
	PageSize    int
}

// CellResolver computes the next (row, column) index for a command.
// The dispatcher clamps whatever it returns to Bounds.
type CellResolver interface {
	NextCellIndex(cmd domain.Command, rowIndex, columnIndex int, b Bounds) (int, int)
}

// CellResolverFunc adapts a function to CellResolver.
type CellResolverFunc func(cmd domain.Command, rowIndex, columnIndex int, b Bounds) (int, int)

// NextCellIndex implements CellResolver.
func (f CellResolverFunc) NextCellIndex(cmd domain.Command, rowIndex, columnIndex int, b Bounds) (int, int) {
	return f(cmd, rowIndex, columnIndex, b)
}

// RowFinder looks rows up by key.
type RowFinder interface {
	FindRow(key domain.RowKey) (*domain.Row, bool)
}
