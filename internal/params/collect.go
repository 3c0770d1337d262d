package params

import (
	"errors"
	"fmt"

	"textconf/internal/diag"
	"textconf/internal/fix"
	"textconf/internal/scanner"
	"textconf/internal/source"
)

// Options tunes a collection pass.
type Options struct {
	Mode     Mode
	Reporter diag.Reporter // может быть nil
}

// Collect parses every placeholder of f in order. Invalid placeholders are
// skipped and reported as warnings; the collection itself never fails.
func Collect(f *source.File, opts Options) []Parameter {
	out := make([]Parameter, 0, 8)
	for sp := range scanner.New(f).All() {
		p, err := parseSpan(sp.Text(f.Content), sp, opts.Mode)
		if err != nil {
			reportParseError(opts, err)
			continue
		}
		if opts.Mode == Permissive {
			reportIgnored(opts.Reporter, p)
		}
		out = append(out, p)
	}
	return out
}

// CollectUnique is Collect plus a name uniqueness check over the parsed
// placeholders. In Strict mode only placeholders with a default take part,
// so "{a}{a=1}" passes while "{a=1}{a=2}" fails with ErrDuplicateName.
func CollectUnique(f *source.File, opts Options) ([]Parameter, error) {
	list := Collect(f, opts)
	if err := CheckUnique(list, opts.Reporter); err != nil {
		return nil, err
	}
	return list, nil
}

// CheckUnique returns a *DuplicateError for the first repeated name.
// Every repetition is reported, the first one is returned.
func CheckUnique(list []Parameter, r diag.Reporter) error {
	seen := make(map[string]source.Span, len(list))
	var first error
	for _, p := range list {
		prev, ok := seen[p.Name]
		if !ok {
			seen[p.Name] = p.Span
			continue
		}
		dup := &DuplicateError{Name: p.Name, First: prev, Second: p.Span}
		diag.ReportError(r, diag.ColDuplicateName, p.Span, dup.Error()).
			WithNote(prev, "first defined here").
			Emit()
		if first == nil {
			first = dup
		}
	}
	return first
}

// CollectText is Collect over a detached string.
func CollectText(text string, mode Mode) []Parameter {
	return Collect(detached(text), Options{Mode: mode})
}

// ParseUnique is CollectUnique over a detached string.
func ParseUnique(text string, mode Mode) ([]Parameter, error) {
	return CollectUnique(detached(text), Options{Mode: mode})
}

// WithDefaults filters parameters that carry a default.
func WithDefaults(list []Parameter) []Parameter {
	out := make([]Parameter, 0, len(list))
	for _, p := range list {
		if p.HasDefault() {
			out = append(out, p)
		}
	}
	return out
}

func detached(text string) *source.File {
	return &source.File{Content: []byte(text)}
}

func reportParseError(opts Options, err error) {
	var pe *ParseError
	if opts.Reporter == nil || !errors.As(err, &pe) {
		return
	}
	// в strict-режиме плейсхолдер без default это просто ссылка, а не ошибка
	if opts.Mode == Strict && errors.Is(err, ErrMissingDefault) {
		return
	}
	// "{}" встречается в обычном тексте (пустой dict и т.п.)
	if pe.Text == "{}" {
		return
	}
	diag.ReportWarning(opts.Reporter, Code(err), pe.Span,
		fmt.Sprintf("%s; placeholder is left as is", pe.Error())).Emit()
}

func reportIgnored(r diag.Reporter, p Parameter) {
	if r == nil {
		return
	}
	if !p.HasDefault() && p.DefaultSpan.Len() == 1 {
		diag.ReportWarning(r, diag.ParIgnoredDefault, p.Span,
			fmt.Sprintf("placeholder %q has an empty default, it is treated as having none", p.Name)).
			WithFix(fix.DeleteSpan("remove '='", p.DefaultSpan, "=")).
			Emit()
	}
	if !p.HasFormat() && p.FormatSpan.Len() == 1 {
		diag.ReportWarning(r, diag.ParIgnoredFormat, p.Span,
			fmt.Sprintf("placeholder %q has an empty format specifier", p.Name)).
			WithFix(fix.DeleteSpan("remove ':'", p.FormatSpan, ":")).
			Emit()
	}
}
