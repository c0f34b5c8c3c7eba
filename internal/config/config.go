// Package config loads grid definitions and data files (YAML or JSON).
//
// Files are parsed into generic maps first and then decoded with
// mapstructure, so YAML and JSON share one set of struct tags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/lattice/internal/store"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/editor"
	"github.com/aretw0/lattice/pkg/keymap"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Definition is the content of a grid definition file.
type Definition struct {
	Columns    []ColumnDef       `mapstructure:"columns"`
	RowHeaders []string          `mapstructure:"rowHeaders"`
	BodyRows   int               `mapstructure:"bodyRows"`
	KeyColumn  string            `mapstructure:"keyColumn"`
	Disabled   bool              `mapstructure:"disabled"`
	Tree       *TreeDef          `mapstructure:"tree"`
	Keymap     map[string]string `mapstructure:"keymap"`
	// Data holds inline rows, in the same shape as a data file.
	Data []any `mapstructure:"data"`
}

// ColumnDef is one entry of "columns". Editor may be written as a bare name
// ("editor: text") or as {type, options}.
type ColumnDef struct {
	Name   string             `mapstructure:"name"`
	Header string             `mapstructure:"header"`
	Width  int                `mapstructure:"width"`
	Hidden bool               `mapstructure:"hidden"`
	Editor *domain.EditorSpec `mapstructure:"editor"`
}

// TreeDef is the "tree" section.
type TreeDef struct {
	Column         string `mapstructure:"column"`
	IndentWidth    *int   `mapstructure:"indentWidth"`
	UseIcon        bool   `mapstructure:"useIcon"`
	LazyObservable bool   `mapstructure:"lazyObservable"`
}

var rowHeaderAliases = map[string]string{
	"rownum":    domain.RowHeaderNumber,
	"checkbox":  domain.RowHeaderCheckbox,
	"draggable": domain.RowHeaderDraggable,
}

// Load reads a definition file. The format follows the extension; anything
// other than .json is read as YAML.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid definition: %w", err)
	}
	def, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition from data in the given format (".json" or YAML).
func Parse(data []byte, format string) (*Definition, error) {
	raw, err := unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("grid definition must be a mapping, got %T", raw)
	}

	var def Definition
	if err := decode(m, &def); err != nil {
		return nil, fmt.Errorf("failed to decode grid definition: %w", err)
	}
	return &def, nil
}

// StoreConfig validates the definition and builds the store configuration.
// Editors are resolved against reg, which fills in their default options.
func (d *Definition) StoreConfig(reg *editor.Registry) (store.Config, error) {
	cfg := store.Config{
		BodyRows:      d.BodyRows,
		KeyColumnName: d.KeyColumn,
		Disabled:      d.Disabled,
	}

	for _, h := range d.RowHeaders {
		name := h
		if alias, ok := rowHeaderAliases[strings.ToLower(h)]; ok {
			name = alias
		}
		if !domain.IsRowHeader(name) {
			return store.Config{}, fmt.Errorf("row header %q: %w", h, domain.ErrUnknownColumn)
		}
		cfg.RowHeaders = append(cfg.RowHeaders, name)
	}

	for _, c := range d.Columns {
		spec, err := reg.Resolve(c.Editor)
		if err != nil {
			return store.Config{}, fmt.Errorf("column %q: %w", c.Name, err)
		}
		cfg.Columns = append(cfg.Columns, domain.Column{
			Name:   c.Name,
			Header: c.Header,
			Width:  c.Width,
			Hidden: c.Hidden,
			Editor: spec,
		})
	}

	if d.Tree != nil {
		cfg.Tree = &store.TreeConfig{
			Column:         d.Tree.Column,
			IndentWidth:    d.Tree.IndentWidth,
			UseIcon:        d.Tree.UseIcon,
			LazyObservable: d.Tree.LazyObservable,
		}
	}
	return cfg, nil
}

// ApplyKeymap binds the definition's keymap overrides onto base.
// An empty action ("") unbinds the stroke.
func (d *Definition) ApplyKeymap(base *keymap.Keymap) error {
	for stroke, spec := range d.Keymap {
		if strings.TrimSpace(spec) == "" {
			base.Unbind(stroke)
			continue
		}
		a, err := keymap.ParseAction(spec)
		if err != nil {
			return fmt.Errorf("keymap %q: %w", stroke, err)
		}
		if err := base.Bind(stroke, a); err != nil {
			return fmt.Errorf("keymap %q: %w", stroke, err)
		}
	}
	return nil
}

// Rows converts the inline data rows.
func (d *Definition) Rows() ([]domain.InputRow, error) {
	return DecodeRows(d.Data)
}

func unmarshal(data []byte, format string) (any, error) {
	var raw any
	if strings.EqualFold(strings.TrimPrefix(format, "."), "json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return raw, nil
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			editorNameHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var editorSpecType = reflect.TypeOf(domain.EditorSpec{})

// editorNameHook expands "editor: text" into EditorSpec{Type: "text"}.
func editorNameHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != editorSpecType {
		return data, nil
	}
	return map[string]any{"type": data}, nil
}
