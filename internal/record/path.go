package record

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitAccumulate returns every dotted prefix of name: "a.b.c" gives "a", "a.b", "a.b.c".
func SplitAccumulate(name string) []string {
	out := make([]string, 0, strings.Count(name, ".")+1)
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			out = append(out, name[:i])
		}
	}
	return append(out, name)
}

// lastSegment returns the part after the last dot.
func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// CamelCase joins the segments of a dotted or snake_case path: "user.max_width" gives "UserMaxWidth".
func CamelCase(path string) string {
	var sb strings.Builder
	upper := true
	for _, r := range path {
		switch {
		case r == '.' || r == '_' || r == '-':
			upper = true
		case upper:
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// validSegment reports whether seg can name a field: non-empty, no whitespace.
func validSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); {
		r, size := utf8.DecodeRuneInString(seg[i:])
		if (r == utf8.RuneError && size <= 1) || unicode.IsSpace(r) {
			return false
		}
		i += size
	}
	return true
}
