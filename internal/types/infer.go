package types

import (
	"regexp"
	"strings"
	"sync"
)

var (
	intPattern   = sync.OnceValue(func() *regexp.Regexp { return regexp.MustCompile(`^[+-]?[0-9]+$`) })
	floatPattern = sync.OnceValue(func() *regexp.Regexp { return regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]*$`) })
)

// IsInt reports whether s is an optionally signed run of decimal digits.
func IsInt(s string) bool {
	return intPattern().MatchString(s)
}

// IsFloat accepts "1.0", "1.", ".1", "+1.5" and exponent forms "1e-3", "1.5E+2".
// A lone "." or a single character is never a float.
func IsFloat(s string) bool {
	if len(s) <= 1 {
		return false
	}
	if floatPattern().MatchString(s) {
		return true
	}
	lower := strings.ToLower(s)
	if strings.Count(lower, "e") != 1 {
		return false
	}
	mant, exp, _ := strings.Cut(lower, "e")
	return (IsFloat(mant) || IsInt(mant)) && IsInt(exp)
}

// IsBool matches true/false in any letter case.
func IsBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// Infer classifies a default literal. Precedence: bool, int, float, list, str.
// A bracketed literal is a list whose element kind is the inference of the
// whole text between the brackets, so "[[1]]" is list[list[int]] and
// "[1,2]" is list[str]. Infer is total: anything unrecognised is a string.
func Infer(literal string) Kind {
	depth := uint8(0)
	for {
		switch {
		case IsBool(literal):
			return Kind{Base: KindBool, Depth: depth}
		case IsInt(literal):
			return Kind{Base: KindInt, Depth: depth}
		case IsFloat(literal):
			return Kind{Base: KindFloat, Depth: depth}
		case isBracketed(literal) && depth < maxDepth:
			depth++
			literal = literal[1 : len(literal)-1]
		default:
			return Kind{Base: KindString, Depth: depth}
		}
	}
}

const maxDepth = 255

func isBracketed(s string) bool {
	return len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']'
}

// SplitList splits list content on top-level commas, skipping commas inside
// nested brackets and quotes. Used to decode list values, never to infer kinds. Items are trimmed; a trailing empty item is dropped.
func SplitList(inner string) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			out = append(out, strings.TrimSpace(inner[start:i]))
			start = i + 1
		}
	}
	last := strings.TrimSpace(inner[start:])
	if last != "" || len(out) == 0 {
		out = append(out, last)
	}
	return out
}
