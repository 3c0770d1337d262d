package driver

import (
	"bytes"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"textconf/internal/source"
)

// MaxSections: template, rewritten source, generated code.
const MaxSections = 3

// ErrTooManySections is returned for documents with more than two separator lines.
var ErrTooManySections = errors.New("too many document sections")

// Document is a textconf file cut at separator lines:
//
//	template
//	---
//	rewritten source
//	---
//	generated code
//
// Only the template is authored; the other sections are regenerated.
type Document struct {
	File       source.FileID
	Content    []byte
	Sections   []source.Span // тела секций, без строк-разделителей
	Separators []source.Span // строки-разделители вместе с переводом строки
	Newline    string        // "\n" или "\r\n", по первому переводу строки
}

// SplitDocument cuts f at every line equal to sep, ignoring trailing blanks.
func SplitDocument(f *source.File, sep string) (*Document, error) {
	doc := &Document{File: f.ID, Content: f.Content, Newline: "\n"}
	if f.Flags&source.FileHasCRLF != 0 {
		doc.Newline = "\r\n"
	}

	content := f.Content
	start := 0
	for ls := 0; ls < len(content); {
		le := len(content)
		if i := bytes.IndexByte(content[ls:], '\n'); i >= 0 {
			le = ls + i + 1
		}
		if string(bytes.TrimRight(content[ls:le], " \t\r\n")) == sep {
			doc.Sections = append(doc.Sections, span(f.ID, start, ls))
			doc.Separators = append(doc.Separators, span(f.ID, ls, le))
			start = le
		}
		ls = le
	}
	doc.Sections = append(doc.Sections, span(f.ID, start, len(content)))

	if len(doc.Sections) > MaxSections {
		return doc, fmt.Errorf("%w: got %d, want at most %d", ErrTooManySections, len(doc.Sections), MaxSections)
	}
	return doc, nil
}

// Template returns the authored part of the document.
func (d *Document) Template() source.Span {
	return d.Sections[0]
}

// TemplateFile is a view of f limited to the template. It keeps f's ID, so
// spans found in the view point into the whole document.
func (d *Document) TemplateFile(f *source.File) *source.File {
	view := *f
	view.Content = f.Content[:d.Template().End]
	return &view
}

// Section returns the text of section i, or "" when it is missing.
func (d *Document) Section(i int) string {
	if i >= len(d.Sections) {
		return ""
	}
	return d.Sections[i].Text(d.Content)
}

// Join keeps the template bytes and appends the generated sections, each after
// a separator line. Generated text uses "\n"; it is converted to d.Newline.
func (d *Document) Join(sep string, generated ...string) []byte {
	tmpl := d.Content[:d.Template().End]
	var buf bytes.Buffer
	buf.Grow(len(tmpl) + 64)
	buf.Write(tmpl)
	for _, part := range generated {
		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteString(d.Newline)
		}
		buf.WriteString(sep)
		buf.WriteString(d.Newline)
		buf.WriteString(d.convert(part))
	}
	if len(generated) > 0 && buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteString(d.Newline)
	}
	return buf.Bytes()
}

func (d *Document) convert(s string) string {
	if d.Newline == "\n" {
		return s
	}
	var sb bytes.Buffer
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && (i == 0 || s[i-1] != '\r') {
			sb.WriteByte('\r')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func span(id source.FileID, start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("document offset overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("document offset overflow: %w", err))
	}
	return source.Span{File: id, Start: s, End: e}
}
