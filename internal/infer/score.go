package infer

import (
	"gsr-report/internal/catalog"
	"gsr-report/internal/match"
)

// KeywordBonus is added when a model's own name suggests the role.
const KeywordBonus = 4

func scoreCandidate(m *catalog.Model) int {
	score := 3 * len(nameFields(m))

	for i := range m.Fields {
		f := &m.Fields[i]
		if f.IsString() && match.MembershipField.MatchString(f.Name) {
			score += 2
			break
		}
	}

	if len(m.ObjectFields()) > 0 {
		score++
	}

	if match.CandidateModel.MatchString(m.Name) {
		score += KeywordBonus
	}

	return score
}

func scoreWorking(m *catalog.Model) int {
	score := 0

	for i := range m.Fields {
		if m.Fields[i].IsDateTime() {
			score += 3
			break
		}
	}

	for _, f := range m.ObjectFields() {
		if match.LodgeRelation.MatchString(f.Name) {
			score += 2
			break
		}
	}

	if match.WorkingModel.MatchString(m.Name) {
		score += KeywordBonus
	}

	return score
}

func joinScorer(candidateModel, workingModel string) func(m *catalog.Model) int {
	return func(m *catalog.Model) int {
		score := 0

		if hasSingularRelation(m, candidateModel) {
			score += 3
		}

		if hasSingularRelation(m, workingModel) {
			score += 3
		}

		for i := range m.Fields {
			if isCeremonyField(&m.Fields[i]) {
				score += 2
				break
			}
		}

		if match.JoinModel.MatchString(m.Name) {
			score += KeywordBonus
		}

		return score
	}
}

// nameFields returns every String field whose name looks like part of a
// person's name, in declaration order.
func nameFields(m *catalog.Model) []string {
	var out []string

	for i := range m.Fields {
		f := &m.Fields[i]
		if f.IsString() && match.NameField.MatchString(f.Name) {
			out = append(out, f.Name)
		}
	}

	return out
}

func hasSingularRelation(m *catalog.Model, target string) bool {
	for _, f := range m.ObjectFields() {
		if !f.IsList && f.Type == target {
			return true
		}
	}

	return false
}

func isCeremonyField(f *catalog.Field) bool {
	if !f.IsString() && !f.IsEnum() {
		return false
	}

	if match.CeremonyField.MatchString(f.Name) {
		return true
	}

	return f.IsEnum() && match.CeremonyField.MatchString(f.Type)
}
