// Package rewrite strips defaults from placeholders and prefixes their names,
// leaving every byte outside the touched placeholders unchanged.
package rewrite

import (
	"strings"

	"textconf/internal/diag"
	"textconf/internal/fix"
	"textconf/internal/params"
	"textconf/internal/source"
)

// Mode is a set of rewrite actions.
type Mode uint8

const (
	// StripDefaults turns "{name:fmt=default}" into "{name:fmt}".
	StripDefaults Mode = 1 << iota
	// PrefixNames inserts the prefix before the name of placeholders with a default.
	PrefixNames

	Default = StripDefaults | PrefixNames
)

func (m Mode) Has(flag Mode) bool { return m&flag != 0 }

func (m Mode) String() string {
	var parts []string
	if m.Has(StripDefaults) {
		parts = append(parts, "strip-defaults")
	}
	if m.Has(PrefixNames) {
		parts = append(parts, "prefix-names")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Options configures a rewrite.
type Options struct {
	Prefix string
	Mode   Mode
}

// Replacement renders the new text for p. Placeholders without a default are
// never altered, so ok is false for them.
func Replacement(p params.Parameter, opts Options) (text string, ok bool) {
	if !p.HasDefault() {
		return "", false
	}
	var sb strings.Builder
	sb.WriteByte('{')
	if opts.Mode.Has(PrefixNames) {
		sb.WriteString(opts.Prefix)
	}
	sb.WriteString(p.Name)
	if p.HasFormat() {
		sb.WriteByte(':')
		sb.WriteString(p.Format)
	}
	if !opts.Mode.Has(StripDefaults) {
		sb.WriteByte('=')
		sb.WriteString(p.Default)
	}
	sb.WriteByte('}')
	return sb.String(), true
}

// Edits builds one span edit per placeholder whose text changes.
func Edits(content []byte, list []params.Parameter, opts Options) []diag.TextEdit {
	edits := make([]diag.TextEdit, 0, len(list))
	for _, p := range list {
		text, ok := Replacement(p, opts)
		if !ok {
			continue
		}
		old := p.Span.Text(content)
		if old == text {
			continue
		}
		edits = append(edits, diag.TextEdit{Span: p.Span, NewText: text, OldText: old})
	}
	return edits
}

// File rewrites the content of f using list, which must come from the same file.
func File(f *source.File, list []params.Parameter, opts Options) ([]byte, error) {
	return fix.ApplyEdits(f.Content, Edits(f.Content, list, opts))
}

// Rewrite collects the placeholders of text permissively and rewrites them.
func Rewrite(text string, opts Options) (string, error) {
	f := &source.File{Content: []byte(text)}
	list := params.Collect(f, params.Options{Mode: params.Permissive})
	out, err := File(f, list, opts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
