package codegen

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"textconf/internal/record"
	"textconf/internal/types"
)

// Schema renders a JSON Schema (draft 2020-12). The root group is the
// top-level object, every nested group is a $defs entry referenced by name.
type Schema struct {
	opts Options
}

func (s *Schema) Name() string          { return "schema" }
func (s *Schema) FileExtension() string { return "json" }

func (s *Schema) Generate(m *record.Model) ([]byte, error) {
	root := s.object(m, m.Root())
	root.Version = jsonschema.Version
	root.Title = m.Root().TypeName

	if len(m.Groups) > 1 {
		root.Definitions = make(jsonschema.Definitions, len(m.Groups)-1)
		for _, idx := range m.PostOrder() {
			if idx == 0 {
				continue
			}
			g := &m.Groups[idx]
			def := s.object(m, g)
			def.Title = g.TypeName
			root.Definitions[g.TypeName] = def
		}
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return append(out, '\n'), nil
}

func (s *Schema) object(m *record.Model, g *record.Group) *jsonschema.Schema {
	obj := &jsonschema.Schema{
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	for _, mem := range g.Members {
		if mem.Field == nil {
			obj.Properties.Set(mem.Key, &jsonschema.Schema{Ref: "#/$defs/" + m.Groups[mem.Group].TypeName})
			continue
		}
		prop := kindSchema(mem.Field.Kind)
		prop.Default = types.Value(mem.Field.Default, mem.Field.Kind)
		obj.Properties.Set(mem.Key, prop)
	}
	return obj
}

func kindSchema(k types.Kind) *jsonschema.Schema {
	if k.IsList() {
		return &jsonschema.Schema{Type: "array", Items: kindSchema(k.Elem())}
	}
	switch k.Base {
	case types.KindInt:
		return &jsonschema.Schema{Type: "integer"}
	case types.KindFloat:
		return &jsonschema.Schema{Type: "number"}
	case types.KindBool:
		return &jsonschema.Schema{Type: "boolean"}
	default:
		return &jsonschema.Schema{Type: "string"}
	}
}
