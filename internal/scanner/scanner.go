// Package scanner locates brace placeholders in raw template text.
//
// Правила (flat/escape):
//   - '{' открывает кандидата; '{' сразу после открывающей отменяет его ("{{" это литерал);
//   - новый '{' внутри кандидата перезапускает его с новой позиции;
//   - '}' закрывает кандидата и выдаёт span [start, end) вместе со скобками;
//   - ASCII пробельные символы сбрасывают кандидата;
//   - незакрытый '{' в конце ничего не выдаёт.
//
// Вложенность не поддерживается: "{a{x}b}" даёт только "{x}".
package scanner

import (
	"iter"

	"textconf/internal/source"
)

// Scanner yields placeholder spans left to right. Scanning never fails.
type Scanner struct {
	cursor Cursor
}

// New creates a scanner over the content of f.
func New(f *source.File) *Scanner {
	return &Scanner{cursor: NewCursor(f)}
}

// FromString creates a scanner over a detached text; spans carry FileID 0.
func FromString(text string) *Scanner {
	return &Scanner{cursor: newCursor(0, []byte(text))}
}

// Next returns the next placeholder span. ok is false once the text is exhausted.
func (s *Scanner) Next() (span source.Span, ok bool) {
	c := &s.cursor
	var (
		start    Mark
		pending  bool
		prevOpen bool // последний значимый байт кандидата был '{'
	)
	for !c.EOF() {
		m := c.Mark()
		b := c.Bump()
		switch {
		case b == '{':
			if pending && prevOpen {
				pending, prevOpen = false, false
				continue
			}
			start, pending, prevOpen = m, true, true
		case b == '}':
			if pending {
				return c.SpanFrom(start), true
			}
			prevOpen = false
		case isSpace(b):
			pending, prevOpen = false, false
		default:
			if pending {
				prevOpen = false
			}
		}
	}
	return source.Span{}, false
}

// All returns an iterator over the remaining spans.
func (s *Scanner) All() iter.Seq[source.Span] {
	return func(yield func(source.Span) bool) {
		for {
			sp, ok := s.Next()
			if !ok || !yield(sp) {
				return
			}
		}
	}
}

// Spans collects every placeholder span of f.
func Spans(f *source.File) []source.Span {
	var out []source.Span
	for sp := range New(f).All() {
		out = append(out, sp)
	}
	return out
}

// SpansOf collects every placeholder span of a detached text.
func SpansOf(text string) []source.Span {
	var out []source.Span
	for sp := range FromString(text).All() {
		out = append(out, sp)
	}
	return out
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
