package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"textconf/internal/diag"
	"textconf/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the whole lines touched by edit, before and after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	file := fs.Get(edit.Span.File)

	startPos, endPos := fs.Resolve(edit.Span)
	endLine := max(endPos.Line, startPos.Line)

	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	blockStart := lineStartOffset(file, startPos.Line, size)
	blockEnd := min(max(lineEndOffsetInclusive(file, endLine, size), blockStart), size)

	original := file.Content[blockStart:blockEnd]
	if edit.Span.Start < blockStart || edit.Span.End > blockEnd || edit.Span.End < edit.Span.Start {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range for preview block", edit.Span)
	}
	relStart := edit.Span.Start - blockStart
	relEnd := edit.Span.End - blockStart

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

// splitPreviewLines drops the final line terminator; inner blank lines are kept.
func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimRight(string(content), "\r\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func lineStartOffset(f *source.File, line, size uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return size
}

func lineEndOffsetInclusive(f *source.File, line, size uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return size
}
