package repository

import (
	"errors"
	"fmt"

	"gsr-report/internal/catalog"
	"gsr-report/internal/mapping"
	"gsr-report/internal/match"
)

var (
	// ErrUnknownModel is returned when a mapping names a model the catalog lacks.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnknownField is returned when a mapping names a field the model lacks,
	// or a relation that cannot be followed.
	ErrUnknownField = errors.New("unknown field")
)

// join describes how a relation field links two models.
type join struct {
	from, to   *catalog.Model
	fromFields []string
	toFields   []string
}

func lookupModel(cat *catalog.Catalog, name string) (*catalog.Model, error) {
	m := cat.Model(name)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}

	return m, nil
}

func requireFields(m *catalog.Model, names ...string) error {
	for _, n := range names {
		if n != "" && !m.HasField(n) {
			return fmt.Errorf("%w: %q on model %q", ErrUnknownField, n, m.Name)
		}
	}

	return nil
}

// resolveJoin turns the relation field rel on model from into key columns.
// A relation without explicit target columns points at the target's id.
func resolveJoin(cat *catalog.Catalog, from *catalog.Model, rel string) (join, error) {
	f := from.Field(rel)
	if f == nil {
		return join{}, fmt.Errorf("%w: relation %q on model %q", ErrUnknownField, rel, from.Name)
	}

	if !f.IsObject() || len(f.RelationFromFields) == 0 {
		return join{}, fmt.Errorf("%w: %q on model %q has no foreign key fields", ErrUnknownField, rel, from.Name)
	}

	to, err := lookupModel(cat, f.Type)
	if err != nil {
		return join{}, err
	}

	toFields := f.RelationToFields
	if len(toFields) == 0 {
		id := match.IdentifierField(to)
		if id == nil {
			return join{}, fmt.Errorf("%w: model %q has no fields", ErrUnknownField, to.Name)
		}

		toFields = []string{id.Name}
	}

	if len(toFields) != len(f.RelationFromFields) {
		return join{}, fmt.Errorf("%w: relation %q on model %q has mismatched key fields", ErrUnknownField, rel, from.Name)
	}

	if err := requireFields(from, f.RelationFromFields...); err != nil {
		return join{}, err
	}

	if err := requireFields(to, toFields...); err != nil {
		return join{}, err
	}

	return join{from: from, to: to, fromFields: f.RelationFromFields, toFields: toFields}, nil
}

// plan is the set of models and joins an association query needs.
type plan struct {
	association, candidate, working, lodge *catalog.Model

	toCandidate, toWorking, toLodge join
}

func newPlan(cat *catalog.Catalog, m *mapping.Mapping) (*plan, error) {
	if m == nil {
		return nil, errors.New("mapping is nil")
	}

	p := &plan{}

	var err error

	if p.association, err = lookupModel(cat, m.CandidateWorking.Model); err != nil {
		return nil, err
	}

	if p.working, err = lookupModel(cat, m.Working.Model); err != nil {
		return nil, err
	}

	if p.candidate, err = lookupModel(cat, m.Candidate.Model); err != nil {
		return nil, err
	}

	if p.lodge, err = lookupModel(cat, m.Lodge.Model); err != nil {
		return nil, err
	}

	if p.toCandidate, err = resolveJoin(cat, p.association, m.CandidateWorking.CandidateRel); err != nil {
		return nil, err
	}

	if p.toWorking, err = resolveJoin(cat, p.association, m.CandidateWorking.WorkingRel); err != nil {
		return nil, err
	}

	if p.toLodge, err = resolveJoin(cat, p.working, m.Working.LodgeRel); err != nil {
		return nil, err
	}

	checks := []struct {
		model  *catalog.Model
		fields []string
	}{
		{p.association, []string{m.CandidateWorking.ID, m.CandidateWorking.Ceremony, m.CandidateWorking.Result, m.CandidateWorking.Remarks}},
		{p.candidate, append([]string{m.Candidate.ID, m.Candidate.MembershipNumber}, m.Candidate.NameFields...)},
		{p.working, []string{m.Working.ID, m.Working.Date, m.Working.Type, m.Working.Notes}},
		{p.lodge, []string{m.Lodge.ID, m.Lodge.Name, m.Lodge.Number}},
	}

	for _, c := range checks {
		if err := requireFields(c.model, c.fields...); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// scalarColumns lists the model's stored (non-relation) fields.
func scalarColumns(m *catalog.Model) []string {
	out := make([]string, 0, len(m.Fields))

	for i := range m.Fields {
		if !m.Fields[i].IsObject() {
			out = append(out, m.Fields[i].Name)
		}
	}

	return out
}
