// Package codegen renders a record.Model as source code or config files.
//
// Each target implements Generator and registers itself by name:
//   - python – dataclasses, nested groups as default_factory fields;
//   - yaml   – a nested mapping usable as a Hydra config;
//   - schema – a JSON Schema with one $defs entry per nested group.
//
// Output is deterministic: members keep their order of first appearance.
package codegen

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"textconf/internal/record"
)

// ErrUnknownTarget is returned by Lookup for unregistered target names.
var ErrUnknownTarget = errors.New("unknown generation target")

// Options are shared by all generators.
type Options struct {
	MaxWidth int // 0 отключает перенос длинных строк
	Indent   int // пробелов на уровень, по умолчанию 4
}

func (o Options) withDefaults() Options {
	if o.Indent <= 0 {
		o.Indent = 4
	}
	return o
}

// Generator renders one target language.
type Generator interface {
	// Name is the target name used on the command line and in textconf.toml.
	Name() string
	// FileExtension without the dot: "py", "yaml", "json".
	FileExtension() string
	Generate(m *record.Model) ([]byte, error)
}

var registry = map[string]func(Options) Generator{
	"python": func(o Options) Generator { return &Python{opts: o.withDefaults()} },
	"yaml":   func(o Options) Generator { return &YAML{opts: o.withDefaults()} },
	"schema": func(o Options) Generator { return &Schema{opts: o.withDefaults()} },
}

// Lookup returns the generator registered under name.
func Lookup(name string, opts Options) (Generator, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTarget, name, strings.Join(Targets(), ", "))
	}
	return ctor(opts), nil
}

// Targets lists registered target names in sorted order.
func Targets() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
