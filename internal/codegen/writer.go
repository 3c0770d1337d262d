package codegen

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Writer accumulates generated text and tracks indentation.
type Writer struct {
	buf         strings.Builder
	indentWidth int
	indentLevel int
	atLineStart bool
}

func newWriter(indentWidth int) *Writer {
	return &Writer{indentWidth: indentWidth, atLineStart: true}
}

func (w *Writer) String() string {
	return w.buf.String()
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	w.buf.WriteString(strings.Repeat(" ", w.indentLevel*w.indentWidth))
	w.atLineStart = false
}

// WriteString writes s, indenting it when it starts a line. s must not contain newlines.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf.WriteString(s)
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	w.WriteString(s)
	w.Newline()
}

// Newline always ends the current line, producing an empty one if needed.
func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
	w.atLineStart = true
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Width returns the display width s would take on a fresh line at the current level.
func (w *Writer) Width(s string) int {
	return w.indentLevel*w.indentWidth + runewidth.StringWidth(s)
}
