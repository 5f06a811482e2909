package catalog

import (
	"strings"

	"gsr-report/internal/common"
)

// Kind is the storage kind of a field.
type Kind string

const (
	KindScalar Kind = "scalar" // String, Int, DateTime, Boolean, ...
	KindObject Kind = "object" // relation to another model
	KindEnum   Kind = "enum"   // value drawn from a declared enum
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindScalar, KindObject, KindEnum:
		return string(k)
	default:
		return common.UnknownStr
	}
}

// Scalar type names as reported by the schema metadata provider.
const (
	TypeString   = "String"
	TypeInt      = "Int"
	TypeBigInt   = "BigInt"
	TypeFloat    = "Float"
	TypeBoolean  = "Boolean"
	TypeDateTime = "DateTime"
)

// Field describes one field of a model.
type Field struct {
	Name       string `yaml:"name" json:"name"`
	Kind       Kind   `yaml:"kind" json:"kind"`
	Type       string `yaml:"type" json:"type"` // scalar type, enum name or related model name
	IsList     bool   `yaml:"isList" json:"isList"`
	IsRequired bool   `yaml:"isRequired" json:"isRequired"`
	IsID       bool   `yaml:"isId" json:"isId"`
	IsUnique   bool   `yaml:"isUnique" json:"isUnique"`

	// For object fields: the local foreign-key fields and the referenced
	// fields on the related model.
	RelationFromFields []string `yaml:"relationFromFields,omitempty" json:"relationFromFields,omitempty"`
	RelationToFields   []string `yaml:"relationToFields,omitempty" json:"relationToFields,omitempty"`
}

// IsScalarType reports whether the field is a scalar of the given type name.
func (f *Field) IsScalarType(typeName string) bool {
	return f.Kind == KindScalar && strings.EqualFold(f.Type, typeName)
}

// IsString reports whether the field is a String scalar.
func (f *Field) IsString() bool {
	return f.IsScalarType(TypeString)
}

// IsDateTime reports whether the field is a DateTime scalar.
func (f *Field) IsDateTime() bool {
	return f.IsScalarType(TypeDateTime)
}

// IsObject reports whether the field is a relation.
func (f *Field) IsObject() bool {
	return f.Kind == KindObject
}

// IsEnum reports whether the field takes its values from an enum.
func (f *Field) IsEnum() bool {
	return f.Kind == KindEnum
}

// Model is a named entity of the schema.
type Model struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field returns the field with the given name, or nil if not found.
func (m *Model) Field(name string) *Field {
	if m == nil {
		return nil
	}

	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}

	return nil
}

// HasField returns true if the model declares a field with the given name.
func (m *Model) HasField(name string) bool {
	return m.Field(name) != nil
}

// ObjectFields returns the relation fields of the model in declaration order.
func (m *Model) ObjectFields() []*Field {
	var out []*Field

	for i := range m.Fields {
		if m.Fields[i].IsObject() {
			out = append(out, &m.Fields[i])
		}
	}

	return out
}

// Enum is a named set of values.
type Enum struct {
	Name   string     `yaml:"name" json:"name"`
	Values EnumValues `yaml:"values" json:"values"`
}

// Catalog is an immutable snapshot of a schema.
type Catalog struct {
	Models []Model `yaml:"models" json:"models"`
	Enums  []Enum  `yaml:"enums" json:"enums"`
}

// Model returns the model with the given name, or nil if not found.
func (c *Catalog) Model(name string) *Model {
	if c == nil {
		return nil
	}

	for i := range c.Models {
		if c.Models[i].Name == name {
			return &c.Models[i]
		}
	}

	return nil
}

// Enum returns the enum with the given name, or nil if not found.
func (c *Catalog) Enum(name string) *Enum {
	if c == nil {
		return nil
	}

	for i := range c.Enums {
		if c.Enums[i].Name == name {
			return &c.Enums[i]
		}
	}

	return nil
}

// ModelNames returns the model names in declaration order.
func (c *Catalog) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for i := range c.Models {
		names = append(names, c.Models[i].Name)
	}

	return names
}
