package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether off lies inside the span.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Overlaps reports whether two spans of the same file share at least one byte.
func (s Span) Overlaps(other Span) bool {
	if s.File != other.File {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Inner drops n bytes from both ends, e.g. the braces of a placeholder.
// A span shorter than 2n collapses to an empty span at its middle.
func (s Span) Inner(n uint32) Span {
	if s.Len() < 2*n {
		mid := s.Start + s.Len()/2
		return Span{File: s.File, Start: mid, End: mid}
	}
	return Span{File: s.File, Start: s.Start + n, End: s.End - n}
}

// Text slices content by the span; out-of-range spans yield "".
func (s Span) Text(content []byte) string {
	if int(s.End) > len(content) || s.Start > s.End {
		return ""
	}
	return string(content[s.Start:s.End])
}
