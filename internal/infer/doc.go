// Package infer derives a role mapping from a schema catalog without any
// hand-written configuration.
//
// Each role is resolved by a weighted heuristic over model and field names
// and types. The highest score wins and ties go to the model declared first,
// so a fixed catalog always yields the same mapping. When a role or one of
// its required fields cannot be found, Infer fails with an InferenceError
// naming the role instead of returning a partial mapping.
//
// Resolution order:
//  1. Candidate: model with the most name-like String fields
//  2. Working: model with a DateTime field and a lodge-like relation
//  3. Lodge: the model the Working's lodge relation points at
//  4. CandidateWorking: model relating Candidate to Working with a ceremony field
package infer
