package types

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BoolDisplay canonicalises "true"/"FALSE"/... to "True"/"False".
// Caser хранит состояние, поэтому создаётся на каждый вызов.
func BoolDisplay(literal string) string {
	return cases.Title(language.Und).String(strings.ToLower(literal))
}

// Unquote strips matching '...' or "..." quotes; other text is returned as is.
func Unquote(literal string) string {
	if len(literal) < 2 {
		return literal
	}
	switch q := literal[0]; {
	case q == '"' && literal[len(literal)-1] == '"':
		if s, err := strconv.Unquote(literal); err == nil {
			return s
		}
		return literal[1 : len(literal)-1]
	case q == '\'' && literal[len(literal)-1] == '\'':
		return literal[1 : len(literal)-1]
	}
	return literal
}

// Display renders literal of kind k as Python source. Only strings and bools
// are rewritten; numbers and lists are emitted exactly as written.
func Display(literal string, k Kind) string {
	if k.IsList() {
		return literal
	}
	switch k.Base {
	case KindBool:
		return BoolDisplay(literal)
	case KindString:
		return strconv.Quote(Unquote(literal))
	default:
		return literal
	}
}

// Value decodes literal of kind k into a Go value: int64, float64, bool,
// string or []any. Numbers that do not fit fall back to float64 or string.
func Value(literal string, k Kind) any {
	if k.IsList() {
		inner := strings.TrimSpace(literal)
		if isBracketed(inner) {
			inner = inner[1 : len(inner)-1]
		}
		items := SplitList(inner)
		out := make([]any, 0, len(items))
		if len(items) == 1 && items[0] == "" {
			return out
		}
		elem := k.Elem()
		for _, it := range items {
			out = append(out, Value(it, elem))
		}
		return out
	}
	switch k.Base {
	case KindBool:
		return strings.EqualFold(literal, "true")
	case KindInt:
		if v, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return v
		}
		if v, err := strconv.ParseFloat(literal, 64); err == nil {
			return v
		}
	case KindFloat:
		if v, err := strconv.ParseFloat(literal, 64); err == nil {
			return v
		}
	case KindString:
		return Unquote(literal)
	}
	return literal
}
