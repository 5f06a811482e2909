package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnumValues is the member list of an enum. In metadata files each member may
// be written either as a bare string or as an object with a name key.
type EnumValues []string

// UnmarshalYAML accepts both `[A, B]` and `[{name: A}, {name: B}]`.
func (v *EnumValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("enum values: expected sequence, got line %d", node.Line)
	}

	out := make(EnumValues, 0, len(node.Content))

	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var named struct {
				Name string `yaml:"name"`
			}
			if err := item.Decode(&named); err != nil {
				return fmt.Errorf("enum value at line %d: %w", item.Line, err)
			}

			if named.Name == "" {
				return fmt.Errorf("enum value at line %d: missing name", item.Line)
			}

			out = append(out, named.Name)
		default:
			return fmt.Errorf("enum value at line %d: unsupported node", item.Line)
		}
	}

	*v = out

	return nil
}

// LoadFile loads and parses a schema metadata file (YAML or JSON).
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses schema metadata. JSON input is accepted since it is valid YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	applyDefaults(&c)

	if err := checkUnique(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// applyDefaults fills in the kind of fields that omit it.
func applyDefaults(c *Catalog) {
	enums := make(map[string]struct{}, len(c.Enums))
	for i := range c.Enums {
		enums[c.Enums[i].Name] = struct{}{}
	}

	models := make(map[string]struct{}, len(c.Models))
	for i := range c.Models {
		models[c.Models[i].Name] = struct{}{}
	}

	for i := range c.Models {
		for j := range c.Models[i].Fields {
			f := &c.Models[i].Fields[j]
			if f.Kind != "" {
				continue
			}

			switch {
			case hasKey(enums, f.Type):
				f.Kind = KindEnum
			case hasKey(models, f.Type):
				f.Kind = KindObject
			default:
				f.Kind = KindScalar
			}
		}
	}
}

func hasKey(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

// checkUnique enforces unique model names and unique field names per model.
func checkUnique(c *Catalog) error {
	seenModels := map[string]struct{}{}

	for i := range c.Models {
		m := &c.Models[i]
		if m.Name == "" {
			return fmt.Errorf("model at index %d has no name", i)
		}

		if hasKey(seenModels, m.Name) {
			return fmt.Errorf("duplicate model %q", m.Name)
		}

		seenModels[m.Name] = struct{}{}

		seenFields := map[string]struct{}{}
		for j := range m.Fields {
			name := m.Fields[j].Name
			if name == "" {
				return fmt.Errorf("model %q: field at index %d has no name", m.Name, j)
			}

			if hasKey(seenFields, name) {
				return fmt.Errorf("model %q: duplicate field %q", m.Name, name)
			}

			seenFields[name] = struct{}{}
		}
	}

	seenEnums := map[string]struct{}{}
	for i := range c.Enums {
		if hasKey(seenEnums, c.Enums[i].Name) {
			return fmt.Errorf("duplicate enum %q", c.Enums[i].Name)
		}

		seenEnums[c.Enums[i].Name] = struct{}{}
	}

	return nil
}
