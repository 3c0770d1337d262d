package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"textconf/internal/diag"
	"textconf/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <sev> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostics not shown\n", n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	start, _ := fs.Resolve(d.Primary)
	path := formatPath(fs, d.Primary.File, opts.PathMode)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.Label()),
		p.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, fs, d.Primary, opts.TabWidth, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("= note:"),
				formatPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s %s (%s)\n", p.note.Sprint("= fix:"), f.Title, f.Applicability)
			for _, e := range f.Edits {
				if preview, err := buildFixEditPreview(fs, e); err == nil {
					for _, line := range preview.before {
						fmt.Fprintf(w, "    - %s\n", line)
					}
					for _, line := range preview.after {
						fmt.Fprintf(w, "    + %s\n", line)
					}
				}
			}
		}
	}
}

// writeSnippet prints the first line of span with a caret underline.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, tabWidth int, p palette) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	line := f.Line(start.Line)
	if line == "" && span.Empty() {
		return
	}

	startCol := int(start.Col) - 1
	endCol := len(line)
	if end.Line == start.Line {
		endCol = int(end.Col) - 1
	}
	startCol = min(max(startCol, 0), len(line))
	endCol = min(max(endCol, startCol), len(line))

	tabs := strings.Repeat(" ", tabWidth)
	expand := func(s string) string { return strings.ReplaceAll(s, "\t", tabs) }

	pad := runewidth.StringWidth(expand(line[:startCol]))
	width := max(runewidth.StringWidth(expand(line[startCol:endCol])), 1)

	num := strconv.FormatUint(uint64(start.Line), 10)
	blank := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), expand(line))
	fmt.Fprintf(w, " %s %s %s%s\n", blank, p.gutter.Sprint("|"), strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}
