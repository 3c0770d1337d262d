package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"textconf/internal/diag"
	"textconf/internal/params"
	"textconf/internal/source"
	"textconf/internal/types"
)

var (
	// ErrGroupConflict is returned when a name is used both as a field and as a group.
	ErrGroupConflict = fmt.Errorf("field/group conflict: %w", params.ErrDuplicateName)
	// ErrInvalidName is returned for dotted names with empty or blank segments.
	ErrInvalidName = errors.New("invalid field name")
)

// ConflictError pins a build failure to the offending field.
type ConflictError struct {
	Err  error
	Name string
	Span source.Span
	Prev source.Span // первое определение, если есть
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Name)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// Member is one entry of a group: a field or a nested group.
type Member struct {
	Key   string // последний сегмент имени
	Field *Field // nil для вложенной группы
	Group int    // индекс вложенной группы в Model.Groups
}

// Kind returns the field kind, or the class kind of a nested group.
func (m Member) Kind(model *Model) types.Kind {
	if m.Field != nil {
		return m.Field.Kind
	}
	return types.Class(model.Groups[m.Group].TypeName)
}

// Group is one record type. Groups[0] of a Model is the root.
type Group struct {
	Path     string // "" для корня
	TypeName string
	Parent   int // -1 для корня
	Members  []Member
	Span     source.Span // первое появление
}

// Model is the grouped view of a field set, stored flat: groups live in one
// slice and index maps a dotted path to its group.
type Model struct {
	Groups []Group
	index  map[string]int
	fields map[string]source.Span
	types  map[string]struct{}
}

// Build groups fields by their dotted names. rootName names the root type
// ("Config" when empty). Every conflict is reported to r; the first one is returned.
func Build(fields []Field, rootName string, r diag.Reporter) (*Model, error) {
	if rootName == "" {
		rootName = "Config"
	}
	m := &Model{
		index:  map[string]int{"": 0},
		fields: make(map[string]source.Span, len(fields)),
		types:  map[string]struct{}{rootName: {}},
	}
	m.Groups = append(m.Groups, Group{TypeName: rootName, Parent: -1})

	var first error
	for i := range fields {
		if err := m.add(&fields[i], r); err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return m, nil
}

func (m *Model) add(f *Field, r diag.Reporter) error {
	for _, seg := range strings.Split(f.Name, ".") {
		if !validSegment(seg) {
			err := &ConflictError{Err: ErrInvalidName, Name: f.Name, Span: f.Span}
			diag.ReportError(r, diag.ColInvalidName, f.Span,
				fmt.Sprintf("field name %q has an empty or blank segment", f.Name)).Emit()
			return err
		}
	}

	paths := SplitAccumulate(f.Name)
	parent := 0
	for _, path := range paths[:len(paths)-1] {
		if idx, ok := m.index[path]; ok {
			parent = idx
			continue
		}
		if prev, ok := m.fields[path]; ok {
			return m.conflict(f, path, prev, r)
		}
		idx := len(m.Groups)
		m.Groups = append(m.Groups, Group{
			Path:     path,
			TypeName: m.typeName(path),
			Parent:   parent,
			Span:     f.Span,
		})
		m.Groups[parent].Members = append(m.Groups[parent].Members, Member{Key: lastSegment(path), Group: idx})
		m.index[path] = idx
		parent = idx
	}

	if prev, ok := m.fields[f.Name]; ok {
		err := &ConflictError{Err: &params.DuplicateError{Name: f.Name, First: prev, Second: f.Span}, Name: f.Name, Span: f.Span, Prev: prev}
		diag.ReportError(r, diag.ColDuplicateName, f.Span, fmt.Sprintf("duplicate field %q", f.Name)).
			WithNote(prev, "first defined here").
			Emit()
		return err
	}
	if idx, ok := m.index[f.Name]; ok {
		return m.conflict(f, f.Name, m.Groups[idx].Span, r)
	}
	m.fields[f.Name] = f.Span
	m.Groups[parent].Members = append(m.Groups[parent].Members, Member{Key: lastSegment(f.Name), Field: f})
	return nil
}

func (m *Model) conflict(f *Field, path string, prev source.Span, r diag.Reporter) error {
	diag.ReportError(r, diag.ColGroupConflict, f.Span,
		fmt.Sprintf("%q is used both as a field and as a group", path)).
		WithNote(prev, "first used here").
		Emit()
	return &ConflictError{Err: ErrGroupConflict, Name: path, Span: f.Span, Prev: prev}
}

// typeName derives a unique CamelCase type name for path.
func (m *Model) typeName(path string) string {
	base := CamelCase(path)
	name := base
	for n := 2; ; n++ {
		if _, taken := m.types[name]; !taken {
			break
		}
		name = base + strconv.Itoa(n)
	}
	m.types[name] = struct{}{}
	return name
}

// Root returns the root group.
func (m *Model) Root() *Group {
	return &m.Groups[0]
}

// Lookup returns the group for a dotted path ("" is the root).
func (m *Model) Lookup(path string) (*Group, bool) {
	idx, ok := m.index[path]
	if !ok {
		return nil, false
	}
	return &m.Groups[idx], true
}

// PostOrder lists group indices with every child before its parent; siblings
// keep their order of first appearance. The root comes last.
func (m *Model) PostOrder() []int {
	out := make([]int, 0, len(m.Groups))
	type frame struct {
		group int
		next  int // следующий член группы для обхода
	}
	stack := []frame{{group: 0}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		members := m.Groups[top.group].Members
		pushed := false
		for top.next < len(members) {
			mem := members[top.next]
			top.next++
			if mem.Field == nil {
				stack = append(stack, frame{group: mem.Group})
				pushed = true
				break
			}
		}
		if pushed {
			continue
		}
		out = append(out, top.group)
		stack = stack[:len(stack)-1]
	}
	return out
}

// Fields counts fields across all groups.
func (m *Model) Fields() int {
	return len(m.fields)
}
