// Package decode fills default definitions from YAML or HCL documents.
//
// Every decoder starts from template.New[D](), so fields missing from the
// document keep their defaults, and finishes by calling Validate when the
// definition implements Validator.
package decode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"

	template "github.com/pumped-fn/pumped-template"
)

// ErrUnsupportedFormat is returned by File for extensions it cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported definition format")

// Format names a document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// Validator is implemented by definitions that check their decoded fields.
type Validator interface {
	Validate() error
}

// Error reports a definition that could not be decoded or validated.
type Error struct {
	Source string
	Format Format
	Err    error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("decode %s definition %s: %v", e.Format, e.Source, e.Err)
	}
	return fmt.Sprintf("decode %s definition: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type options struct {
	variables map[string]cty.Value
}

// Option configures decoding
type Option func(*options)

// WithVariables makes vars available to HCL expressions. YAML documents
// have no expressions and ignore it.
func WithVariables(vars map[string]cty.Value) Option {
	return func(o *options) {
		if o.variables == nil {
			o.variables = make(map[string]cty.Value, len(vars))
		}
		for name, val := range vars {
			o.variables[name] = val
		}
	}
}

// Variables converts plain Go values to cty values for WithVariables.
func Variables(values map[string]any) (map[string]cty.Value, error) {
	vars := make(map[string]cty.Value, len(values))
	for name, v := range values {
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		val, err := gocty.ToCtyValue(v, ty)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		vars[name] = val
	}
	return vars, nil
}

// YAML decodes data over a default D.
func YAML[D any](data []byte) (*D, error) {
	return decodeYAML[D]("", data)
}

func decodeYAML[D any](source string, data []byte) (*D, error) {
	def := template.New[D]()
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, &Error{Source: source, Format: FormatYAML, Err: err}
	}
	return validate(def, source, FormatYAML)
}

// HCL decodes src over a default D. filename is used in diagnostics.
func HCL[D any](src []byte, filename string, opts ...Option) (*D, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &Error{Source: filename, Format: FormatHCL, Err: diags}
	}

	var evalCtx *hcl.EvalContext
	if len(o.variables) > 0 {
		evalCtx = &hcl.EvalContext{Variables: o.variables}
	}

	def := template.New[D]()
	if diags := gohcl.DecodeBody(file.Body, evalCtx, def); diags.HasErrors() {
		return nil, &Error{Source: filename, Format: FormatHCL, Err: diags}
	}
	return validate(def, filename, FormatHCL)
}

// File reads path and decodes it according to its extension: .yaml, .yml
// or .hcl.
func File[D any](path string, opts ...Option) (*D, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch format {
	case FormatHCL:
		return HCL[D](data, path, opts...)
	default:
		return decodeYAML[D](path, data)
	}
}

// FormatOf picks the format for path from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func validate[D any](def *D, source string, format Format) (*D, error) {
	v, ok := any(def).(Validator)
	if !ok {
		return def, nil
	}
	if err := v.Validate(); err != nil {
		return nil, &Error{Source: source, Format: format, Err: err}
	}
	return def, nil
}
