package fix

import (
	"textconf/internal/diag"
	"textconf/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

func build(title string, edits []diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText creates fix that inserts text at an empty span.
func InsertText(title string, at source.Span, text string, opts ...Option) diag.Fix {
	at.End = at.Start
	return build(title, []diag.TextEdit{{Span: at, NewText: text}}, opts)
}

// DeleteSpan removes text covered by span; expect guards the edit when non-empty.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return build(title, []diag.TextEdit{{Span: span, OldText: expect}}, opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return build(title, []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}}, opts)
}
