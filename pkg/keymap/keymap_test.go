package keymap_test

import (
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"up":             "up",
		"ArrowUp":        "up",
		"Shift+Ctrl+End": "ctrl-shift-end",
		"shift-PgDn":     "shift-pagedown",
		"Delete":         "del",
		" ctrl-a ":       "ctrl-a",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := keymap.Normalize(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	for _, bad := range []string{"", "shift", "a-b"} {
		_, err := keymap.Normalize(bad)
		assert.ErrorIs(t, err, domain.ErrUnknownKey, bad)
	}
}

func TestDefault_Resolve(t *testing.T) {
	k := keymap.Default()

	tests := []struct {
		stroke string
		want   domain.Action
	}{
		{"down", domain.Action{Type: domain.ActionMove, Command: domain.CommandDown}},
		{"Shift-Tab", domain.Action{Type: domain.ActionMove, Command: domain.CommandPrevCell}},
		{"enter", domain.Action{Type: domain.ActionEdit, Command: domain.CommandCurrentCell}},
		{"shift+down", domain.Action{Type: domain.ActionSelect, Command: domain.CommandDown}},
		{"ctrl-a", domain.Action{Type: domain.ActionSelect, Command: domain.CommandAll}},
		{"shift-ctrl-end", domain.Action{Type: domain.ActionSelect, Command: domain.CommandLastCell}},
		{"del", domain.Action{Type: domain.ActionRemove}},
	}
	for _, tt := range tests {
		t.Run(tt.stroke, func(t *testing.T) {
			got, err := k.Resolve(tt.stroke)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := k.Resolve("ctrl-z")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestBindUnbind(t *testing.T) {
	k := keymap.Default()

	require.NoError(t, k.Bind("J", domain.Action{Type: domain.ActionMove, Command: domain.CommandDown}))
	got, err := k.Resolve("j")
	require.NoError(t, err)
	assert.Equal(t, domain.CommandDown, got.Command)
	assert.Contains(t, k.Strokes(), "j")

	assert.ErrorIs(t, k.Bind("k", domain.Action{Type: "jump"}), domain.ErrUnknownActionType)

	k.Unbind("del")
	_, err = k.Resolve("del")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
}

func TestParseAction(t *testing.T) {
	a, err := keymap.ParseAction("select:pageDown")
	require.NoError(t, err)
	assert.Equal(t, domain.Action{Type: domain.ActionSelect, Command: domain.CommandPageDown}, a)

	a, err = keymap.ParseAction("remove")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionRemove, a.Type)

	_, err = keymap.ParseAction("move:sideways")
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)
	_, err = keymap.ParseAction("fly:up")
	assert.ErrorIs(t, err, domain.ErrUnknownActionType)
}
