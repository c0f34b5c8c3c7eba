// Package editor names the cell editor kinds a column may reference.
//
// The core only checks that a column has an editor; the widgets behind these
// names live in the rendering layer.
package editor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// Built-in editor names.
const (
	Text              = "text"
	Password          = "password"
	Checkbox          = "checkbox"
	Radio             = "radio"
	CheckboxDblFilter = "checkboxDblFilter"
	RadioDblFilter    = "radioDblFilter"
	Select            = "select"
	DatePicker        = "datePicker"
)

// Kind is a registered editor: the widget implementing it and the options it
// starts from.
type Kind struct {
	Name     string
	Widget   string
	Defaults map[string]any
}

// Registry manages the available editor kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Default returns a registry holding the built-in kinds.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Kind{Name: Text, Widget: "text", Defaults: map[string]any{"type": "text"}})
	r.Register(Kind{Name: Password, Widget: "text", Defaults: map[string]any{"type": "password"}})
	r.Register(Kind{Name: Checkbox, Widget: "checkbox", Defaults: map[string]any{"type": "checkbox"}})
	r.Register(Kind{Name: Radio, Widget: "checkbox", Defaults: map[string]any{"type": "radio"}})
	r.Register(Kind{Name: CheckboxDblFilter, Widget: "checkboxDblFilter", Defaults: map[string]any{"type": "checkbox"}})
	r.Register(Kind{Name: RadioDblFilter, Widget: "checkboxDblFilter", Defaults: map[string]any{"type": "radio"}})
	r.Register(Kind{Name: Select, Widget: "select"})
	r.Register(Kind{Name: DatePicker, Widget: "datePicker"})
	return r
}

// Register adds a kind. An existing kind with the same name is overwritten.
func (r *Registry) Register(k Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = k
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Kind, error) {
	r.mu.RLock()
	k, ok := r.kinds[name]
	r.mu.RUnlock()
	if !ok {
		return Kind{}, fmt.Errorf("editor %q: %w", name, domain.ErrUnknownEditor)
	}
	return k, nil
}

// Names lists the registered kinds, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for n := range r.kinds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve validates spec and fills in the kind's default options. Options
// set on the spec win over defaults. A nil spec resolves to nil.
func (r *Registry) Resolve(spec *domain.EditorSpec) (*domain.EditorSpec, error) {
	if spec == nil {
		return nil, nil
	}
	k, err := r.Lookup(spec.Type)
	if err != nil {
		return nil, err
	}
	opts := make(map[string]any, len(k.Defaults)+len(spec.Options))
	for key, v := range k.Defaults {
		opts[key] = v
	}
	for key, v := range spec.Options {
		opts[key] = v
	}
	return &domain.EditorSpec{Type: spec.Type, Options: opts}, nil
}
