// Package catalog provides the read-only schema view consumed by mapping
// inference and validation.
//
// A Catalog is a plain data structure: models in declaration order, each with
// its fields, plus the enums the schema declares. It is supplied by the host
// application, either loaded from a metadata file (YAML or JSON) or derived by
// introspecting a SQLite database.
//
// Key types:
//   - Catalog: models + enums snapshot, immutable for one pass
//   - Model: a named entity and its ordered fields
//   - Field: name, kind (scalar/object/enum), type and flags
//   - Enum: a named set of member values
package catalog
