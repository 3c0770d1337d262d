package fix

import (
	"errors"
	"fmt"
	"slices"

	"textconf/internal/diag"
)

var (
	// ErrConflict is returned when two edits overlap.
	ErrConflict = errors.New("conflicting edits")
	// ErrOutOfRange is returned for spans past the end of the content.
	ErrOutOfRange = errors.New("edit span out of range")
	// ErrGuard is returned when OldText does not match the current content.
	ErrGuard = errors.New("existing text does not match expected content")
)

// ApplyEdits applies edits to content in one left-to-right pass: bytes before
// each edit are copied through, the edit's NewText is written, and the tail is
// copied last. Edits refer to offsets of the original content; their order in
// the slice does not matter. Insertions at the same offset keep slice order.
func ApplyEdits(content []byte, edits []diag.TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b diag.TextEdit) int {
		if a.Span.Start != b.Span.Start {
			return int(a.Span.Start) - int(b.Span.Start)
		}
		return int(a.Span.End) - int(b.Span.End)
	})

	grow := 0
	for i, e := range sorted {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(content) {
			return nil, fmt.Errorf("%w: %v", ErrOutOfRange, e.Span)
		}
		if i > 0 && spansConflict(sorted[i-1], e) {
			return nil, fmt.Errorf("%w: %v and %v", ErrConflict, sorted[i-1].Span, e.Span)
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return nil, fmt.Errorf("%w at %v", ErrGuard, e.Span)
		}
		grow += len(e.NewText) - int(e.Span.Len())
	}

	out := make([]byte, 0, max(len(content)+grow, 0))
	pos := uint32(0)
	for _, e := range sorted {
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	out = append(out, content[pos:]...)
	return out, nil
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// never conflict. A zero-length edit conflicts with a non-zero span if its
// position is strictly inside that span.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
