// Package match provides identifier normalization, the role patterns used to
// recognize semantically meaningful fields, and deterministic ranking of
// fields and models.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers across naming conventions
//   - RankFields: ranks a model's fields against preferred names
//   - RankModels: orders scored models, first-declared winning ties
package match
