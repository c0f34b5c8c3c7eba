package domain

// EditorSpec is the editor configuration of a column. Its presence alone makes
// the column editable; the editor widget itself lives outside the core.
type EditorSpec struct {
	Type    string         `json:"type" mapstructure:"type"`
	Options map[string]any `json:"options,omitempty" mapstructure:"options"`
}

// Column describes one grid column.
type Column struct {
	Name   string      `json:"name" mapstructure:"name"`
	Header string      `json:"header,omitempty" mapstructure:"header"`
	Width  int         `json:"width,omitempty" mapstructure:"width"`
	Hidden bool        `json:"hidden,omitempty" mapstructure:"hidden"`
	Editor *EditorSpec `json:"editor,omitempty" mapstructure:"editor"`
}

// Editable reports whether the column has an editor configured.
func (c *Column) Editable() bool {
	return c != nil && c.Editor != nil
}

// RowHeader reports whether the column is a row header column.
func (c *Column) RowHeader() bool {
	return IsRowHeader(c.Name)
}
