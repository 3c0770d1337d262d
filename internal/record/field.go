// Package record turns placeholders with defaults into typed fields and groups
// dotted names into a tree of record types.
package record

import (
	"fmt"

	"textconf/internal/diag"
	"textconf/internal/params"
	"textconf/internal/rewrite"
	"textconf/internal/source"
	"textconf/internal/types"
)

// Field is a placeholder known to have a default.
type Field struct {
	Name    string // полное имя, например "c.d"
	Kind    types.Kind
	Default string
	Span    source.Span
}

// NewField infers the kind of p's default. p must have a default.
func NewField(p params.Parameter) (Field, error) {
	if !p.HasDefault() {
		return Field{}, &params.ParseError{Err: params.ErrMissingDefault, Text: p.Braced(), Span: p.Span}
	}
	return Field{
		Name:    p.Name,
		Kind:    types.Infer(p.Default),
		Default: p.Default,
		Span:    p.Span,
	}, nil
}

// Display renders the default as Python source: quoted strings, True/False, normalised lists.
func (f Field) Display() string {
	return types.Display(f.Default, f.Kind)
}

// String renders "name: kind = default".
func (f Field) String() string {
	return fmt.Sprintf("%s: %s = %s", f.Name, f.Kind, f.Display())
}

// FieldList is the result of analysing one template: the rewritten source and its fields.
type FieldList struct {
	Source string
	Fields []Field
}

// Options configures NewFieldList / FromFile.
type Options struct {
	Prefix   string
	Mode     rewrite.Mode // 0 means rewrite.Default
	Reporter diag.Reporter
}

// NewFieldList rewrites text with prefix and collects its fields.
// Two defaults with the same name fail with params.ErrDuplicateName.
func NewFieldList(text, prefix string) (*FieldList, error) {
	return FromFile(&source.File{Content: []byte(text)}, Options{Prefix: prefix})
}

// FromFile is NewFieldList over a file of a FileSet, reporting diagnostics to opts.Reporter.
func FromFile(f *source.File, opts Options) (*FieldList, error) {
	list := params.Collect(f, params.Options{Mode: params.Permissive, Reporter: opts.Reporter})
	defs := params.WithDefaults(list)
	if err := params.CheckUnique(defs, opts.Reporter); err != nil {
		return nil, err
	}

	mode := opts.Mode
	if mode == 0 {
		mode = rewrite.Default
	}
	out, err := rewrite.File(f, list, rewrite.Options{Prefix: opts.Prefix, Mode: mode})
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}

	fields := make([]Field, 0, len(defs))
	for _, p := range defs {
		field, err := NewField(p)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return &FieldList{Source: string(out), Fields: fields}, nil
}
