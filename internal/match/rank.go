package match

import (
	"slices"
	"sort"
	"strings"

	"gsr-report/internal/catalog"
)

// Ranking weights for preferred-name matching.
const (
	ExactNameWeight = 5
	SubstringWeight = 2
)

// FieldPredicate filters the fields eligible for a role.
type FieldPredicate func(f *catalog.Field) bool

// FieldCandidate is a field eligible for a role together with its rank.
type FieldCandidate struct {
	Field *catalog.Field
	Rank  int
	Index int // declaration index within the model
}

// FieldCandidateList is ordered by rank (descending), then declaration order.
type FieldCandidateList []FieldCandidate

// RankFields filters the model's fields with pred and ranks them against the
// preferred names: an exact (normalized) name match scores ExactNameWeight
// and every preferred token the name contains scores SubstringWeight.
func RankFields(m *catalog.Model, pred FieldPredicate, preferred ...string) FieldCandidateList {
	if m == nil {
		return nil
	}

	var out FieldCandidateList

	for i := range m.Fields {
		f := &m.Fields[i]
		if pred != nil && !pred(f) {
			continue
		}

		out = append(out, FieldCandidate{
			Field: f,
			Rank:  NameRank(f.Name, preferred...),
			Index: i,
		})
	}

	sort.Stable(out)

	return out
}

// NameRank scores a name against the preferred names.
func NameRank(name string, preferred ...string) int {
	norm := NormalizeIdent(name)
	rank := 0

	for _, p := range preferred {
		pn := NormalizeIdent(p)
		if pn == "" {
			continue
		}

		if norm == pn {
			rank += ExactNameWeight
		}

		if strings.Contains(norm, pn) {
			rank += SubstringWeight
		}
	}

	return rank
}

// Len implements sort.Interface.
func (c FieldCandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c FieldCandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c FieldCandidateList) Less(i, j int) bool {
	if c[i].Rank != c[j].Rank {
		return c[i].Rank > c[j].Rank
	}

	return c[i].Index < c[j].Index
}

// Best returns the top-ranked field, or nil if no field was eligible.
func (c FieldCandidateList) Best() *catalog.Field {
	if len(c) == 0 {
		return nil
	}

	return c[0].Field
}

// BestNamed returns the top-ranked field only if its name matched at least
// one preferred name.
func (c FieldCandidateList) BestNamed() *catalog.Field {
	if len(c) == 0 || c[0].Rank == 0 {
		return nil
	}

	return c[0].Field
}

// Excluding returns the list without the named fields.
func (c FieldCandidateList) Excluding(names ...string) FieldCandidateList {
	var out FieldCandidateList

	for _, cand := range c {
		skip := false

		for _, n := range names {
			if cand.Field.Name == n {
				skip = true
				break
			}
		}

		if !skip {
			out = append(out, cand)
		}
	}

	return out
}

// ModelScore is a model's score for one role.
type ModelScore struct {
	Model *catalog.Model
	Score int
	Index int // declaration index within the catalog
}

// ModelScoreList is ordered by score (descending), then declaration order.
type ModelScoreList []ModelScore

// RankModels scores every model not excluded and orders the results.
func RankModels(c *catalog.Catalog, score func(m *catalog.Model) int, exclude ...string) ModelScoreList {
	var out ModelScoreList

	for i := range c.Models {
		m := &c.Models[i]
		if slices.Contains(exclude, m.Name) {
			continue
		}

		out = append(out, ModelScore{Model: m, Score: score(m), Index: i})
	}

	sort.Stable(out)

	return out
}

// Len implements sort.Interface.
func (l ModelScoreList) Len() int { return len(l) }

// Swap implements sort.Interface.
func (l ModelScoreList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Less implements sort.Interface.
func (l ModelScoreList) Less(i, j int) bool {
	if l[i].Score != l[j].Score {
		return l[i].Score > l[j].Score
	}

	return l[i].Index < l[j].Index
}

// Best returns the highest-scoring model with a positive score, or nil.
func (l ModelScoreList) Best() *ModelScore {
	if len(l) == 0 || l[0].Score <= 0 {
		return nil
	}

	return &l[0]
}

// IdentifierField picks the model's identifier: the first id field, else the
// first unique field, else simply the first field.
func IdentifierField(m *catalog.Model) *catalog.Field {
	if m == nil || len(m.Fields) == 0 {
		return nil
	}

	for i := range m.Fields {
		if m.Fields[i].IsID {
			return &m.Fields[i]
		}
	}

	for i := range m.Fields {
		if m.Fields[i].IsUnique {
			return &m.Fields[i]
		}
	}

	return &m.Fields[0]
}
