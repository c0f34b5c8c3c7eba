package editor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxValueSize bounds a text cell value in bytes.
	DefaultMaxValueSize = 4096
	// EnvMaxValueSize overrides DefaultMaxValueSize.
	EnvMaxValueSize = "LATTICE_MAX_VALUE_SIZE"
)

var (
	ErrValueTooLarge = errors.New("value exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("value contains invalid UTF-8 sequences")
)

// SanitizeValue cleans a value arriving from outside the process before it
// is written to a cell. Strings are size checked, UTF-8 validated and
// stripped of control characters other than newline, tab and carriage
// return. Other values pass through unchanged.
func SanitizeValue(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	return SanitizeText(s)
}

// SanitizeText is SanitizeValue for strings.
func SanitizeText(input string) (string, error) {
	limit := maxValueSize()
	if len(input) > limit {
		// Rejected rather than truncated so the stored value is what was sent.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrValueTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func maxValueSize() int {
	if val := os.Getenv(EnvMaxValueSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxValueSize
}
