// Package types classifies default-value literals into Kinds.
package types

import (
	"fmt"
	"strings"
)

// Base enumerates scalar kinds. Lists are expressed through Kind.Depth.
type Base uint8

const (
	KindInvalid Base = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindClass // вложенная группа полей
)

func (b Base) String() string {
	switch b {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindBool:
		return "bool"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Base(%d)", b)
	}
}

// Kind is a scalar base wrapped in Depth list layers: Depth 2 over KindInt is list[list[int]].
type Kind struct {
	Base  Base
	Depth uint8
	Class string // только для KindClass
}

var (
	Int    = Kind{Base: KindInt}
	Float  = Kind{Base: KindFloat}
	String = Kind{Base: KindString}
	Bool   = Kind{Base: KindBool}
)

// Class returns the kind of a nested group named name.
func Class(name string) Kind {
	return Kind{Base: KindClass, Class: name}
}

// ListOf wraps k in one more list layer.
func ListOf(k Kind) Kind {
	k.Depth++
	return k
}

func (k Kind) IsList() bool { return k.Depth > 0 }

// Elem strips one list layer; scalars are returned unchanged.
func (k Kind) Elem() Kind {
	if k.Depth > 0 {
		k.Depth--
	}
	return k
}

// Scalar strips every list layer.
func (k Kind) Scalar() Kind {
	k.Depth = 0
	return k
}

// String renders the Python-style spelling: int, float, str, bool, list[...], ClassName.
func (k Kind) String() string {
	inner := k.Base.String()
	if k.Base == KindClass {
		inner = k.Class
	}
	if k.Depth == 0 {
		return inner
	}
	var sb strings.Builder
	sb.Grow(len(inner) + int(k.Depth)*6)
	for range k.Depth {
		sb.WriteString("list[")
	}
	sb.WriteString(inner)
	sb.WriteString(strings.Repeat("]", int(k.Depth)))
	return sb.String()
}
