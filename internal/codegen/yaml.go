package codegen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"textconf/internal/record"
	"textconf/internal/types"
)

// YAML renders a nested mapping with typed scalars; list defaults become flow sequences.
type YAML struct {
	opts Options
}

func (y *YAML) Name() string          { return "yaml" }
func (y *YAML) FileExtension() string { return "yaml" }

func (y *YAML) Generate(m *record.Model) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode}
	doc.Content = append(doc.Content, y.group(m, m.Root()))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func (y *YAML) group(m *record.Model, g *record.Group) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, mem := range g.Members {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: mem.Key}
		var value *yaml.Node
		if mem.Field == nil {
			value = y.group(m, &m.Groups[mem.Group])
		} else {
			value = literalNode(mem.Field.Default, mem.Field.Kind)
		}
		node.Content = append(node.Content, key, value)
	}
	return node
}

// literalNode keeps float literals as written; ints are re-formatted so that
// "007" does not turn into an octal. List literals that parse as a YAML flow
// sequence are embedded as is, anything else becomes a string.
func literalNode(literal string, k types.Kind) *yaml.Node {
	if k.IsList() {
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(literal), &doc); err == nil &&
			len(doc.Content) == 1 && doc.Content[0].Kind == yaml.SequenceNode {
			seq := doc.Content[0]
			seq.Style = yaml.FlowStyle
			return seq
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: literal}
	}
	switch k.Base {
	case types.KindBool:
		v := strconv.FormatBool(strings.EqualFold(literal, "true"))
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v}
	case types.KindInt:
		if v, ok := types.Value(literal, k).(int64); ok {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: literal}
	case types.KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: literal}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: types.Unquote(literal)}
	}
}
