package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// LoadRows reads a data file: a list of rows, each a mapping of column
// values plus the reserved keys rowKey, _children and _attributes.
func LoadRows(path string) ([]domain.InputRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	rows, err := ParseRows(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ParseRows decodes a data file in the given format (".json" or YAML).
func ParseRows(data []byte, format string) ([]domain.InputRow, error) {
	raw, err := unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("data must be a list of rows, got %T", raw)
	}
	return DecodeRows(list)
}

// DecodeRows converts generic nested rows into input rows. Nesting depth is
// unbounded; the walk uses an explicit stack.
func DecodeRows(list []any) ([]domain.InputRow, error) {
	type frame struct {
		src  any
		dst  *domain.InputRow
		path string
	}

	if len(list) == 0 {
		return nil, nil
	}
	out := make([]domain.InputRow, len(list))
	stack := make([]frame, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		stack = append(stack, frame{src: list[i], dst: &out[i], path: fmt.Sprintf("[%d]", i)})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		m, ok := f.src.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %s: expected a mapping, got %T", f.path, f.src)
		}

		row := domain.InputRow{Values: make(map[string]any, len(m))}
		for k, v := range m {
			switch k {
			case domain.KeyRowKey:
				key, err := toRowKey(v)
				if err != nil {
					return nil, fmt.Errorf("row %s: %w", f.path, err)
				}
				row.RowKey = &key
			case domain.KeyAttributes:
				attrs, err := decodeAttributes(v)
				if err != nil {
					return nil, fmt.Errorf("row %s: %w", f.path, err)
				}
				row.Attributes = attrs
			case domain.KeyChildren:
			default:
				row.Values[k] = v
			}
		}

		if rawChildren, present := m[domain.KeyChildren]; present && rawChildren != nil {
			children, ok := rawChildren.([]any)
			if !ok {
				return nil, fmt.Errorf("row %s: %s must be a list, got %T", f.path, domain.KeyChildren, rawChildren)
			}
			row.Children = make([]domain.InputRow, len(children))
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{
					src:  children[i],
					dst:  &row.Children[i],
					path: fmt.Sprintf("%s.%s[%d]", f.path, domain.KeyChildren, i),
				})
			}
		}
		*f.dst = row
	}
	return out, nil
}

// decodeAttributes accepts {expanded, disabled} and the nested
// {tree: {expanded}} form.
func decodeAttributes(v any) (domain.InputAttributes, error) {
	var attrs domain.InputAttributes
	m, ok := v.(map[string]any)
	if !ok {
		return attrs, fmt.Errorf("%s must be a mapping, got %T", domain.KeyAttributes, v)
	}
	if err := decode(m, &attrs); err != nil {
		return attrs, fmt.Errorf("failed to decode %s: %w", domain.KeyAttributes, err)
	}
	if t, ok := m["tree"].(map[string]any); ok {
		var nested struct {
			Expanded bool `mapstructure:"expanded"`
		}
		if err := mapstructure.WeakDecode(t, &nested); err != nil {
			return attrs, fmt.Errorf("failed to decode %s.tree: %w", domain.KeyAttributes, err)
		}
		attrs.Expanded = attrs.Expanded || nested.Expanded
	}
	return attrs, nil
}

func toRowKey(v any) (domain.RowKey, error) {
	switch n := v.(type) {
	case int:
		return domain.RowKey(n), nil
	case int64:
		return domain.RowKey(n), nil
	case uint64:
		return domain.RowKey(n), nil
	case float64:
		if n == float64(int64(n)) {
			return domain.RowKey(n), nil
		}
	}
	return 0, fmt.Errorf("%s must be an integer, got %v", domain.KeyRowKey, v)
}
