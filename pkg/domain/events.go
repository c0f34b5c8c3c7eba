package domain

// EventType defines the category of the event.
type EventType string

const (
	EventFocusChange     EventType = "focus_change"
	EventSelectionChange EventType = "selection_change"
	EventEditStart       EventType = "edit_start"
	EventContentRemove   EventType = "content_remove"
	EventMoveRejected    EventType = "move_rejected"
	EventDispatch        EventType = "dispatch"
)

// FocusEvent describes a focus transition. Calling Stop from OnFocusChange
// vetoes the change before it is committed.
type FocusEvent struct {
	GridID         string     `json:"grid_id"`
	RowKey         NullRowKey `json:"row_key"`
	ColumnName     string     `json:"column_name"`
	PrevRowKey     NullRowKey `json:"prev_row_key"`
	PrevColumnName string     `json:"prev_column_name"`

	stopped bool
}

// Stop cancels the pending focus change.
func (e *FocusEvent) Stop() {
	e.stopped = true
}

// Stopped reports whether Stop was called.
func (e *FocusEvent) Stopped() bool {
	return e.stopped
}

// SelectionEvent describes a change of the input range.
type SelectionEvent struct {
	GridID string          `json:"grid_id"`
	Range  *SelectionRange `json:"range"`
}

// RemoveEvent describes a bulk content removal.
type RemoveEvent struct {
	GridID  string         `json:"grid_id"`
	Range   SelectionRange `json:"range"`
	Columns []string       `json:"columns"`
	Cleared int            `json:"cleared"`
}

// ActionEvent describes a dispatched action.
type ActionEvent struct {
	GridID string `json:"grid_id"`
	Action Action `json:"action"`
}

// LifecycleHooks defines callbacks for dispatcher observability.
type LifecycleHooks struct {
	OnDispatch        func(*ActionEvent)
	OnFocusChange     func(*FocusEvent)
	OnMoveRejected    func(*FocusEvent)
	OnEditStart       func(*FocusEvent)
	OnSelectionChange func(*SelectionEvent)
	OnContentRemove   func(*RemoveEvent)
}

// MergeHooks chains several hook sets; callbacks run in argument order.
func MergeHooks(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range sets {
		out.OnDispatch = chain(out.OnDispatch, h.OnDispatch)
		out.OnFocusChange = chain(out.OnFocusChange, h.OnFocusChange)
		out.OnMoveRejected = chain(out.OnMoveRejected, h.OnMoveRejected)
		out.OnEditStart = chain(out.OnEditStart, h.OnEditStart)
		out.OnSelectionChange = chain(out.OnSelectionChange, h.OnSelectionChange)
		out.OnContentRemove = chain(out.OnContentRemove, h.OnContentRemove)
	}
	return out
}

func chain[E any](a, b func(*E)) func(*E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *E) {
		a(e)
		b(e)
	}
}
