// Package params turns placeholder text such as "{name:.2f=3.14}" into Parameters.
package params

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"textconf/internal/source"
)

// Mode selects how strictly a placeholder is parsed.
type Mode uint8

const (
	// Permissive: no '=' means no default, "{a=}" also means no default.
	Permissive Mode = iota
	// Strict: exactly one '=' with a non-empty default is required.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "permissive"
}

// Parameter is one parsed placeholder. Name is never empty and never holds ':' or '='.
// Format and Default are empty when absent.
type Parameter struct {
	Name    string
	Format  string
	Default string

	Span        source.Span // весь плейсхолдер вместе со скобками
	NameSpan    source.Span
	FormatSpan  source.Span // ":fmt", пустой если ':' нет
	DefaultSpan source.Span // "=default", пустой если '=' нет
}

func (p Parameter) HasFormat() bool  { return p.Format != "" }
func (p Parameter) HasDefault() bool { return p.Default != "" }

// String renders the inner form "name[:format][=default]".
func (p Parameter) String() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	if p.HasFormat() {
		sb.WriteByte(':')
		sb.WriteString(p.Format)
	}
	if p.HasDefault() {
		sb.WriteByte('=')
		sb.WriteString(p.Default)
	}
	return sb.String()
}

// Braced renders "{name[:format][=default]}".
func (p Parameter) Braced() string {
	return "{" + p.String() + "}"
}

// Lossy renders "{prefix+name[:format]}" without the default.
func (p Parameter) Lossy(prefix string) string {
	if p.HasFormat() {
		return fmt.Sprintf("{%s%s:%s}", prefix, p.Name, p.Format)
	}
	return fmt.Sprintf("{%s%s}", prefix, p.Name)
}

// Parse parses placeholder content without braces, e.g. "b:.2f=3.14".
// Spans are relative to content.
func Parse(content string, mode Mode) (Parameter, error) {
	end := mustU32(len(content))
	return parseInner(content, source.Span{Start: 0, End: end}, source.Span{Start: 0, End: end}, mode)
}

// ParseBraced parses a placeholder that still carries its braces, e.g. "{a=1}".
func ParseBraced(raw string, mode Mode) (Parameter, error) {
	whole := source.Span{Start: 0, End: mustU32(len(raw))}
	return parseSpan(raw, whole, mode)
}

// parseSpan parses text[whole] where whole covers "{...}" in some file.
func parseSpan(raw string, whole source.Span, mode Mode) (Parameter, error) {
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return Parameter{}, &ParseError{Err: ErrMalformed, Text: raw, Span: whole}
	}
	return parseInner(raw[1:len(raw)-1], whole, whole.Inner(1), mode)
}

func parseInner(content string, whole, inner source.Span, mode Mode) (Parameter, error) {
	fail := func(err error) (Parameter, error) {
		text := content
		if whole != inner {
			text = "{" + content + "}"
		}
		return Parameter{}, &ParseError{Err: err, Text: text, Span: whole}
	}

	eq := strings.IndexByte(content, '=')
	if mode == Strict {
		switch n := strings.Count(content, "="); {
		case n == 0:
			return fail(ErrMissingDefault)
		case n > 1:
			return fail(ErrMalformed)
		}
		if eq == len(content)-1 {
			return fail(ErrEmptyDefault)
		}
	}

	nameFormat := content
	p := Parameter{Span: whole}
	at := func(from, to int) source.Span {
		return source.Span{File: inner.File, Start: inner.Start + mustU32(from), End: inner.Start + mustU32(to)}
	}
	p.DefaultSpan = at(len(content), len(content))
	if eq >= 0 {
		nameFormat = content[:eq]
		p.Default = content[eq+1:]
		p.DefaultSpan = at(eq, len(content))
	}

	p.FormatSpan = at(len(nameFormat), len(nameFormat))
	name := nameFormat
	if colon := strings.IndexByte(nameFormat, ':'); colon >= 0 {
		name = nameFormat[:colon]
		p.Format = nameFormat[colon+1:]
		p.FormatSpan = at(colon, len(nameFormat))
	}
	if name == "" {
		return fail(ErrEmptyName)
	}
	p.Name = name
	p.NameSpan = at(0, len(name))
	return p, nil
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
