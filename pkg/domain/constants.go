package domain

// Reserved keys of an input row. Everything else is a column value.
const (
	KeyRowKey     = "rowKey"
	KeyChildren   = "_children"
	KeyAttributes = "_attributes"
)

// Tree attribute keys, as stored on the reactive record.
const (
	AttrParentRowKey = "parentRowKey"
	AttrChildRowKeys = "childRowKeys"
	AttrHidden       = "hidden"
	AttrExpanded     = "expanded"
)

// Row header column names. Row header cells are never focusable.
const (
	RowHeaderNumber    = "_number"
	RowHeaderCheckbox  = "_checked"
	RowHeaderDraggable = "_draggable"
)

const (
	// TreeIndentWidth is the base indent (and icon width) of a tree cell.
	TreeIndentWidth = 22

	// DefaultBodyRows is the page size used by pageUp/pageDown.
	DefaultBodyRows = 10
)

// IsRowHeader reports whether name is a row header column.
func IsRowHeader(name string) bool {
	switch name {
	case RowHeaderNumber, RowHeaderCheckbox, RowHeaderDraggable:
		return true
	}
	return false
}
