// Package diagnostic provides structured findings produced when a mapping is
// checked against a schema catalog.
//
// Key capabilities:
//   - Errors that make a mapping stale (missing model, field or enum)
//   - Warnings for loose but tolerated choices (relation type mismatch)
//   - Infos for drift that does not affect validity (enum members changed)
package diagnostic
