package codegen

import (
	"fmt"

	"textconf/internal/record"
)

// Python renders dataclasses. Nested groups are emitted before the classes
// that use them, the root class comes last.
type Python struct {
	opts Options
}

func (p *Python) Name() string          { return "python" }
func (p *Python) FileExtension() string { return "py" }

func (p *Python) Generate(m *record.Model) ([]byte, error) {
	order := m.PostOrder()

	needField := false
	for _, g := range m.Groups {
		for _, mem := range g.Members {
			if mem.Field == nil || mem.Field.Kind.IsList() {
				needField = true
			}
		}
	}

	w := newWriter(p.opts.Indent)
	if needField {
		w.Line("from dataclasses import dataclass, field")
	} else {
		w.Line("from dataclasses import dataclass")
	}

	for _, idx := range order {
		g := &m.Groups[idx]
		w.Newline()
		w.Newline()
		w.Line("@dataclass")
		w.Line(fmt.Sprintf("class %s:", g.TypeName))
		w.IndentPush()
		if len(g.Members) == 0 {
			w.Line("pass")
		}
		for _, mem := range g.Members {
			p.member(w, m, mem)
		}
		w.IndentPop()
	}
	return []byte(w.String()), nil
}

func (p *Python) member(w *Writer, m *record.Model, mem record.Member) {
	head := fmt.Sprintf("%s: %s = ", mem.Key, mem.Kind(m))

	var value string
	factory := false
	switch {
	case mem.Field == nil:
		value = fmt.Sprintf("default_factory=%s", m.Groups[mem.Group].TypeName)
		factory = true
	case mem.Field.Kind.IsList():
		value = fmt.Sprintf("default_factory=lambda: %s", mem.Field.Display())
		factory = true
	default:
		value = mem.Field.Display()
	}

	full := head + value
	if factory {
		full = head + "field(" + value + ")"
	}
	if p.opts.MaxWidth <= 0 || w.Width(full) <= p.opts.MaxWidth {
		w.Line(full)
		return
	}

	// длинная строка: значение переносится внутрь скобок
	if factory {
		w.Line(head + "field(")
	} else {
		w.Line(head + "(")
	}
	w.IndentPush()
	w.Line(value)
	w.IndentPop()
	w.Line(")")
}
