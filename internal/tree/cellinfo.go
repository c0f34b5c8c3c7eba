package tree

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/reactive"
)

// CellInfoOptions configures tree cell rendering data.
type CellInfoOptions struct {
	// IndentWidth per depth level; nil means domain.TreeIndentWidth.
	IndentWidth *int
	// UseIcon adds one icon width to the indent.
	UseIcon bool
	// LazyObservable computes the info once, without reactivity.
	LazyObservable bool
}

// CellInfo is what the tree column renderer needs for one row.
type CellInfo struct {
	Depth       int
	IndentWidth int

	leaf     *reactive.Value[bool]
	expanded *reactive.Value[bool]
	comp     *reactive.Computation
}

// Leaf reports whether the row has no children.
func (c *CellInfo) Leaf() bool {
	return c.leaf.Get()
}

// Expanded reports whether the row shows its children.
func (c *CellInfo) Expanded() bool {
	return c.expanded.Get()
}

// Reactive reports whether the info follows the row's tree state.
func (c *CellInfo) Reactive() bool {
	return c.comp != nil
}

// Stop detaches the info from the row. Harmless in lazy mode.
func (c *CellInfo) Stop() {
	if c.comp != nil {
		c.comp.Stop()
	}
}

// CreateTreeCellInfo derives depth, indent, leaf and expanded for row. In eager
// mode Leaf and Expanded track the row; in lazy mode they are a snapshot.
func CreateTreeCellInfo(ctx *reactive.Context, rows ports.RowFinder, row *domain.Row, opts CellInfoOptions) *CellInfo {
	depth, _ := Depth(rows, row)
	info := &CellInfo{
		Depth:       depth,
		IndentWidth: IndentWidth(depth, opts.IndentWidth, opts.UseIcon),
	}

	if opts.LazyObservable || ctx == nil {
		info.leaf = reactive.NewValue[bool](nil, IsLeaf(row))
		info.expanded = reactive.NewValue[bool](nil, IsExpanded(row))
		return info
	}

	info.leaf = reactive.NewValue(ctx, false)
	info.expanded = reactive.NewValue(ctx, false)
	info.comp = ctx.Observe(func() {
		info.expanded.Set(IsExpanded(row))
		info.leaf.Set(IsLeaf(row))
	})
	return info
}

// IndentWidth is the left offset of a tree cell at depth. A nil indentWidth
// uses domain.TreeIndentWidth; an explicit zero keeps every depth aligned.
func IndentWidth(depth int, indentWidth *int, useIcon bool) int {
	step := domain.TreeIndentWidth
	if indentWidth != nil {
		step = *indentWidth
	}
	width := domain.TreeIndentWidth + (depth-1)*step
	if useIcon {
		width += domain.TreeIndentWidth
	}
	return width
}
