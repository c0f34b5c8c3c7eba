// Package keymap translates key strokes into dispatcher actions.
//
// A stroke is a key name optionally prefixed by modifiers, such as "up",
// "shift-down" or "ctrl-shift-end". Strokes are normalized to lowercase
// with modifiers in ctrl, alt, shift order, so "Shift+Ctrl+End" and
// "ctrl-shift-end" name the same binding.
package keymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

var modifierOrder = []string{"ctrl", "alt", "shift"}

var keyAliases = map[string]string{
	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",
	"delete":     "del",
	"escape":     "esc",
	"return":     "enter",
	"pgup":       "pageup",
	"pgdn":       "pagedown",
	"pgdown":     "pagedown",
	"control":    "ctrl",
	"option":     "alt",
}

// Keymap binds normalized strokes to actions.
type Keymap struct {
	bindings map[string]domain.Action
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{bindings: make(map[string]domain.Action)}
}

// Default returns the standard grid bindings.
func Default() *Keymap {
	move := func(c domain.Command) domain.Action { return domain.Action{Type: domain.ActionMove, Command: c} }
	sel := func(c domain.Command) domain.Action { return domain.Action{Type: domain.ActionSelect, Command: c} }

	k := New()
	for stroke, a := range map[string]domain.Action{
		"up":              move(domain.CommandUp),
		"down":            move(domain.CommandDown),
		"left":            move(domain.CommandLeft),
		"right":           move(domain.CommandRight),
		"pageup":          move(domain.CommandPageUp),
		"pagedown":        move(domain.CommandPageDown),
		"home":            move(domain.CommandFirstColumn),
		"end":             move(domain.CommandLastColumn),
		"ctrl-home":       move(domain.CommandFirstCell),
		"ctrl-end":        move(domain.CommandLastCell),
		"tab":             move(domain.CommandNextCell),
		"shift-tab":       move(domain.CommandPrevCell),
		"enter":           {Type: domain.ActionEdit, Command: domain.CommandCurrentCell},
		"shift-up":        sel(domain.CommandUp),
		"shift-down":      sel(domain.CommandDown),
		"shift-left":      sel(domain.CommandLeft),
		"shift-right":     sel(domain.CommandRight),
		"shift-pageup":    sel(domain.CommandPageUp),
		"shift-pagedown":  sel(domain.CommandPageDown),
		"shift-home":      sel(domain.CommandFirstColumn),
		"shift-end":       sel(domain.CommandLastColumn),
		"ctrl-shift-home": sel(domain.CommandFirstCell),
		"ctrl-shift-end":  sel(domain.CommandLastCell),
		"ctrl-a":          sel(domain.CommandAll),
		"del":             {Type: domain.ActionRemove},
		"backspace":       {Type: domain.ActionRemove},
	} {
		k.bindings[stroke] = a
	}
	return k
}

// Bind maps stroke to a, replacing any previous binding.
func (k *Keymap) Bind(stroke string, a domain.Action) error {
	norm, err := Normalize(stroke)
	if err != nil {
		return err
	}
	if _, err := domain.ParseActionType(string(a.Type)); err != nil {
		return err
	}
	k.bindings[norm] = a
	return nil
}

// Unbind removes the binding of stroke, if any.
func (k *Keymap) Unbind(stroke string) {
	if norm, err := Normalize(stroke); err == nil {
		delete(k.bindings, norm)
	}
}

// Resolve returns the action bound to stroke.
func (k *Keymap) Resolve(stroke string) (domain.Action, error) {
	norm, err := Normalize(stroke)
	if err != nil {
		return domain.Action{}, err
	}
	a, ok := k.bindings[norm]
	if !ok {
		return domain.Action{}, fmt.Errorf("%w: %q", domain.ErrUnknownKey, stroke)
	}
	return a, nil
}

// Strokes lists the bound strokes, sorted.
func (k *Keymap) Strokes() []string {
	out := make([]string, 0, len(k.bindings))
	for s := range k.bindings {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Normalize returns the canonical form of stroke.
func Normalize(stroke string) (string, error) {
	parts := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(stroke)), func(r rune) bool {
		return r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: empty stroke", domain.ErrUnknownKey)
	}

	mods := map[string]bool{}
	key := ""
	for _, p := range parts {
		if alias, ok := keyAliases[p]; ok {
			p = alias
		}
		if isModifier(p) {
			mods[p] = true
			continue
		}
		if key != "" {
			return "", fmt.Errorf("%w: %q has two keys", domain.ErrUnknownKey, stroke)
		}
		key = p
	}
	if key == "" {
		return "", fmt.Errorf("%w: %q has no key", domain.ErrUnknownKey, stroke)
	}

	var b strings.Builder
	for _, m := range modifierOrder {
		if mods[m] {
			b.WriteString(m)
			b.WriteByte('-')
		}
	}
	b.WriteString(key)
	return b.String(), nil
}

// ParseAction parses "type:command" (or a bare "remove").
func ParseAction(s string) (domain.Action, error) {
	typ, cmd, _ := strings.Cut(strings.TrimSpace(s), ":")
	t, err := domain.ParseActionType(typ)
	if err != nil {
		return domain.Action{}, err
	}
	a := domain.Action{Type: t}
	if cmd != "" {
		c, err := domain.ParseCommand(cmd)
		if err != nil {
			return domain.Action{}, err
		}
		a.Command = c
	}
	return a, nil
}

func isModifier(p string) bool {
	for _, m := range modifierOrder {
		if p == m {
			return true
		}
	}
	return false
}
