package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeText_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"Under Limit", DefaultMaxValueSize - 1, false},
		{"Exact Limit", DefaultMaxValueSize, false},
		{"Over Limit", DefaultMaxValueSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeText(strings.Repeat("a", tt.size))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValueTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeText_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "main.go", "main.go"},
		{"Safe Controls", "Line1\nLine2\tTabbed\r", "Line1\nLine2\tTabbed\r"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeText(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeText_InvalidUTF8(t *testing.T) {
	_, err := SanitizeText("bad\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeText_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxValueSize, "10")

	_, err := SanitizeText("12345678901")
	assert.ErrorIs(t, err, ErrValueTooLarge)

	_, err = SanitizeText("12345")
	assert.NoError(t, err)
}

func TestSanitizeValue_NonString(t *testing.T) {
	// 1. Numbers and booleans are stored as sent
	for _, v := range []any{42.0, true, nil} {
		got, err := SanitizeValue(v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	// 2. Strings are cleaned
	got, err := SanitizeValue("a\x00b")
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}
