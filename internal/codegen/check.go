package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"textconf/internal/record"
	"textconf/internal/source"
	"textconf/internal/types"
)

// Issue is a construct of the generated code the target language rejects,
// pointing back at the placeholder it came from.
type Issue struct {
	Span    source.Span
	Message string
}

// Checker is implemented by generators whose output can be invalid for some
// names or literals that are fine as placeholders.
type Checker interface {
	Check(m *record.Model) []Issue
}

// hard keywords only: soft ones (match, case, type, _) are valid attribute names
var pythonKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {}, "async": {},
	"await": {}, "break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {},
	"else": {}, "except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {},
	"pass": {}, "raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// Check reports member names Python cannot use as attributes and integer
// defaults with leading zeros, which Python 3 rejects.
func (p *Python) Check(m *record.Model) []Issue {
	var issues []Issue
	for _, g := range m.Groups {
		for _, mem := range g.Members {
			span := m.Groups[mem.Group].Span
			if mem.Field != nil {
				span = mem.Field.Span
			}
			if msg := pythonNameProblem(mem.Key); msg != "" {
				issues = append(issues, Issue{Span: span, Message: msg})
			}
			if mem.Field == nil || mem.Field.Kind.Base != types.KindInt {
				continue
			}
			if lit, ok := leadingZeroInt(mem.Field.Default, int(mem.Field.Kind.Depth)); ok {
				issues = append(issues, Issue{Span: span, Message: fmt.Sprintf(
					"integer default %s has leading zeros; Python 3 rejects it, write %s",
					lit, withoutLeadingZeros(lit))})
			}
		}
	}
	return issues
}

func pythonNameProblem(name string) string {
	if _, ok := pythonKeywords[name]; ok {
		return fmt.Sprintf("field name %q is a Python keyword; the generated class will not compile", name)
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return fmt.Sprintf("field name %q is not a Python identifier", name)
	}
	return ""
}

// leadingZeroInt strips depth list brackets and reports the integer literal
// inside when it has a redundant leading zero ("007", "-00").
func leadingZeroInt(literal string, depth int) (string, bool) {
	for range depth {
		if len(literal) < 2 {
			return "", false
		}
		literal = literal[1 : len(literal)-1]
	}
	digits := strings.TrimLeft(literal, "+-")
	return literal, len(digits) > 1 && digits[0] == '0'
}

func withoutLeadingZeros(lit string) string {
	sign := lit[:len(lit)-len(strings.TrimLeft(lit, "+-"))]
	digits := strings.TrimLeft(lit[len(sign):], "0")
	if digits == "" {
		digits = "0"
	}
	return sign + digits
}
